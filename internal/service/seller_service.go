package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
)

const trustRecomputePage uint = 200

type SellerService struct {
	uow        uow.UOW
	sellerRepo SellerRepository
	risk       *RiskEngine
	now        func() time.Time
}

func NewSellerService(u uow.UOW, risk *RiskEngine) (*SellerService, error) {
	sellerRepo, err := uow.GetRepositoryAs[SellerRepository](u, uow.RepositoryName(repoargs.SellerRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &SellerService{
		uow:        u,
		sellerRepo: sellerRepo,
		risk:       risk,
		now:        time.Now,
	}, nil
}

func (s *SellerService) GetSeller(ctx context.Context, sellerID int64) (*domain.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return seller, nil
}

// UpdateTrustLevel recomputes and stores the seller's trust level.
func (s *SellerService) UpdateTrustLevel(ctx context.Context, sellerID int64) (domain.TrustLevel, error) {
	var level domain.TrustLevel
	err := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[SellerRepository](tx, uow.RepositoryName(repoargs.SellerRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		seller, lockErr := repo.LockByID(c, sellerID)
		if lockErr != nil {
			return lockErr //nolint:wrapcheck
		}
		level, repoErr = s.applyTrustLevel(c, repo, seller)
		return repoErr
	})
	if err != nil {
		return "", fmt.Errorf("updating trust level of seller %d: %w", sellerID, err)
	}
	return level, nil
}

// RecordChargeback counts a chargeback against the seller and recomputes the trust level right away.
func (s *SellerService) RecordChargeback(ctx context.Context, sellerID int64) (*domain.Seller, error) {
	record := func(c context.Context, repo SellerRepository) (*domain.Seller, error) {
		return repo.RecordChargeback(c, sellerID, s.now()) //nolint:wrapcheck
	}
	return s.recordIncident(ctx, sellerID, "chargeback", record)
}

func (s *SellerService) RecordDispute(ctx context.Context, sellerID int64) (*domain.Seller, error) {
	record := func(c context.Context, repo SellerRepository) (*domain.Seller, error) {
		return repo.RecordDispute(c, sellerID) //nolint:wrapcheck
	}
	return s.recordIncident(ctx, sellerID, "dispute", record)
}

// RecomputeTrustLevels pages through all sellers and stores changed trust levels. Returns the number of
// sellers whose level changed.
func (s *SellerService) RecomputeTrustLevels(ctx context.Context) (int, error) {
	var (
		afterID int64
		changed int
	)
	for {
		ids, err := s.sellerRepo.ListIDs(ctx, afterID, trustRecomputePage)
		if err != nil {
			return changed, fmt.Errorf("recomputing trust levels: %w", err)
		}
		for _, id := range ids {
			seller, getErr := s.sellerRepo.GetByID(ctx, id)
			if getErr != nil {
				return changed, fmt.Errorf("recomputing trust levels: %w", getErr)
			}
			if s.risk.EvaluateTrustLevel(*seller) == seller.TrustLevel {
				continue
			}
			if _, updErr := s.UpdateTrustLevel(ctx, id); updErr != nil {
				return changed, updErr
			}
			changed++
		}
		if uint(len(ids)) < trustRecomputePage {
			return changed, nil
		}
		afterID = ids[len(ids)-1]
	}
}

func (s *SellerService) recordIncident(
	ctx context.Context,
	sellerID int64,
	kind string,
	record func(context.Context, SellerRepository) (*domain.Seller, error),
) (*domain.Seller, error) {
	var result *domain.Seller
	err := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[SellerRepository](tx, uow.RepositoryName(repoargs.SellerRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		seller, recordErr := record(c, repo)
		if recordErr != nil {
			return recordErr
		}
		level, levelErr := s.applyTrustLevel(c, repo, seller)
		if levelErr != nil {
			return levelErr
		}
		seller.TrustLevel = level
		result = seller
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recording %s of seller %d: %w", kind, sellerID, err)
	}
	return result, nil
}

func (s *SellerService) applyTrustLevel(
	ctx context.Context,
	repo SellerRepository,
	seller *domain.Seller,
) (domain.TrustLevel, error) {
	level := s.risk.EvaluateTrustLevel(*seller)
	if level == seller.TrustLevel {
		return level, nil
	}
	if err := repo.UpdateTrustLevel(ctx, seller.ID, level); err != nil {
		return "", err //nolint:wrapcheck
	}
	return level, nil
}

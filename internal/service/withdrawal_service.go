package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const withdrawalEntity = "withdrawal request"

// WithdrawalService runs the payout request workflow. A pending or approved request keeps its amount reserved
// in pending_balance until it is completed, rejected or cancelled.
type WithdrawalService struct {
	uow            uow.UOW
	withdrawalRepo WithdrawalRepository
	events         eventEmitter
	now            func() time.Time
}

func NewWithdrawalService(u uow.UOW, publisher EventPublisher, l *logrus.Logger) (*WithdrawalService, error) {
	withdrawalRepo, err := uow.GetRepositoryAs[WithdrawalRepository](
		u, uow.RepositoryName(repoargs.WithdrawalRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &WithdrawalService{
		uow:            u,
		withdrawalRepo: withdrawalRepo,
		events:         newEventEmitter(publisher, l.WithField("component", "WithdrawalService")),
		now:            time.Now,
	}, nil
}

type CreateWithdrawalArgs struct {
	UserID         int64
	Amount         decimal.Decimal
	Method         string
	PaymentDetails domain.Metadata
}

// CreateWithdrawalRequest reserves amount from the available balance and files a pending request.
func (w *WithdrawalService) CreateWithdrawalRequest(
	ctx context.Context,
	args CreateWithdrawalArgs,
) (*domain.WithdrawalRequest, error) {
	if err := validateAmount(args.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Method) == "" {
		return nil, fmt.Errorf("%w: withdrawal method is required", domain.ErrInvalidInput)
	}

	var request *domain.WithdrawalRequest
	err := retryOnConflict(ctx, func() error {
		return w.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			walletRepo, repoErr := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
			if repoErr != nil {
				return repoErr //nolint:wrapcheck
			}
			withdrawalRepo, wRepoErr := uow.GetAs[WithdrawalRepository](
				tx, uow.RepositoryName(repoargs.WithdrawalRepoName))
			if wRepoErr != nil {
				return wRepoErr //nolint:wrapcheck
			}

			wallet, lockErr := walletRepo.LockByUserID(c, args.UserID)
			if lockErr != nil {
				return lockErr //nolint:wrapcheck
			}
			if !wallet.IsActive {
				return domain.ErrWalletInactive
			}
			reserve := repoargs.WalletDelta{PendingBalance: args.Amount}
			if guardErr := guardDelta(wallet, reserve); guardErr != nil {
				return guardErr
			}
			if _, applyErr := walletRepo.ApplyDelta(c, wallet.ID, reserve); applyErr != nil {
				return applyErr //nolint:wrapcheck
			}
			r, createErr := withdrawalRepo.Create(c, repoargs.CreateWithdrawal{
				UserID:         args.UserID,
				WalletID:       wallet.ID,
				Amount:         args.Amount,
				Method:         args.Method,
				PaymentDetails: args.PaymentDetails,
			})
			if createErr != nil {
				return createErr //nolint:wrapcheck
			}
			request = r
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("creating withdrawal request of user %d: %w", args.UserID, err)
	}
	return request, nil
}

// CancelWithdrawal lets the owner withdraw a pending request and frees the reservation.
func (w *WithdrawalService) CancelWithdrawal(
	ctx context.Context,
	requestID, userID int64,
) (*domain.WithdrawalRequest, error) {
	return w.transition(ctx, requestID, domain.WithdrawalStatusCancelled,
		func(c context.Context, tx uow.TX, repo WithdrawalRepository, request *domain.WithdrawalRequest) (
			*domain.WithdrawalRequest, error,
		) {
			if request.UserID != userID {
				return nil, domain.ErrOwnerConflict
			}
			if err := expectStatus(request, domain.WithdrawalStatusPending, domain.WithdrawalStatusCancelled); err != nil {
				return nil, err
			}
			if _, err := adjustPending(c, tx, request.WalletID, request.Amount.Neg()); err != nil {
				return nil, err
			}
			return repo.Cancel(c, request.ID, w.now()) //nolint:wrapcheck
		})
}

func (w *WithdrawalService) ApproveWithdrawal(
	ctx context.Context,
	requestID, approverID int64,
) (*domain.WithdrawalRequest, error) {
	return w.transition(ctx, requestID, domain.WithdrawalStatusApproved,
		func(c context.Context, _ uow.TX, repo WithdrawalRepository, request *domain.WithdrawalRequest) (
			*domain.WithdrawalRequest, error,
		) {
			if err := expectStatus(request, domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved); err != nil {
				return nil, err
			}
			return repo.Approve(c, request.ID, approverID, w.now()) //nolint:wrapcheck
		})
}

// RejectWithdrawal declines a pending request with a reason and frees the reservation.
func (w *WithdrawalService) RejectWithdrawal(
	ctx context.Context,
	requestID int64,
	reason string,
) (*domain.WithdrawalRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidInput)
	}
	return w.transition(ctx, requestID, domain.WithdrawalStatusRejected,
		func(c context.Context, tx uow.TX, repo WithdrawalRepository, request *domain.WithdrawalRequest) (
			*domain.WithdrawalRequest, error,
		) {
			if err := expectStatus(request, domain.WithdrawalStatusPending, domain.WithdrawalStatusRejected); err != nil {
				return nil, err
			}
			if _, err := adjustPending(c, tx, request.WalletID, request.Amount.Neg()); err != nil {
				return nil, err
			}
			return repo.Reject(c, request.ID, reason, w.now()) //nolint:wrapcheck
		})
}

// CompleteWithdrawal debits the reserved amount with a withdrawal transaction and links it to the request.
func (w *WithdrawalService) CompleteWithdrawal(ctx context.Context, requestID int64) (*domain.WithdrawalRequest, error) {
	var posted *postedEntry
	request, err := w.transition(ctx, requestID, domain.WithdrawalStatusCompleted,
		func(c context.Context, tx uow.TX, repo WithdrawalRepository, request *domain.WithdrawalRequest) (
			*domain.WithdrawalRequest, error,
		) {
			if err := expectStatus(request, domain.WithdrawalStatusApproved, domain.WithdrawalStatusCompleted); err != nil {
				return nil, err
			}
			p, postErr := postEntry(c, tx, ledgerEntry{
				walletID:     request.WalletID,
				txType:       domain.TransactionTypeWithdrawal,
				amount:       request.Amount.Neg(),
				pendingDelta: request.Amount.Neg(),
				description:  fmt.Sprintf("withdrawal request %d via %s", request.ID, request.Method),
				metadata:     domain.Metadata{"withdrawal_request_id": fmt.Sprint(request.ID)},
			})
			if postErr != nil {
				return nil, postErr
			}
			posted = p
			return repo.Complete(c, request.ID, p.transaction.ID, w.now()) //nolint:wrapcheck
		})
	if err != nil {
		return nil, err
	}
	w.events.emit(ctx, newLedgerEvent(domain.EventWithdrawalCompleted, posted.transaction, w.now()))
	return request, nil
}

// ListWithdrawals returns the user's requests newest first, optionally filtered by status.
func (w *WithdrawalService) ListWithdrawals(
	ctx context.Context,
	userID int64,
	statuses ...domain.WithdrawalStatus,
) ([]domain.WithdrawalRequest, error) {
	requests, err := w.withdrawalRepo.ListByUser(ctx, userID, statuses)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return requests, nil
}

type withdrawalStep func(
	ctx context.Context,
	tx uow.TX,
	repo WithdrawalRepository,
	request *domain.WithdrawalRequest,
) (*domain.WithdrawalRequest, error)

// transition locks the request before the wallet and runs step in one unit of work.
func (w *WithdrawalService) transition(
	ctx context.Context,
	requestID int64,
	to domain.WithdrawalStatus,
	step withdrawalStep,
) (*domain.WithdrawalRequest, error) {
	var result *domain.WithdrawalRequest
	err := retryOnConflict(ctx, func() error {
		return w.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
			repo, repoErr := uow.GetAs[WithdrawalRepository](tx, uow.RepositoryName(repoargs.WithdrawalRepoName))
			if repoErr != nil {
				return repoErr //nolint:wrapcheck
			}
			request, lockErr := repo.LockByID(c, requestID)
			if lockErr != nil {
				return lockErr //nolint:wrapcheck
			}
			r, stepErr := step(c, tx, repo, request)
			if stepErr != nil {
				return stepErr
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("moving withdrawal request %d to %s: %w", requestID, to, err)
	}
	return result, nil
}

func expectStatus(request *domain.WithdrawalRequest, want, to domain.WithdrawalStatus) error {
	if request.Status != want {
		return domain.NewInvalidTransitionError(withdrawalEntity, request.ID, string(request.Status), string(to))
	}
	return nil
}

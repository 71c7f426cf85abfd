package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const sellerColumns = `id, created_at, updated_at, account_created_at, trust_level, completed_sales,
	chargebacks_received, disputed_sales, last_chargeback_at, payout_account_id, fee_override,
	subscription_tier, sales_volume`

type SellerRepository struct {
	conn uow.DBTX
}

func NewSellerRepository(conn uow.DBTX) *SellerRepository {
	return &SellerRepository{conn: conn}
}

func (s *SellerRepository) GetByID(ctx context.Context, id int64) (*domain.Seller, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id)
	seller, err := scanSeller(row)
	if err != nil {
		return nil, convertErr(err, "getting seller %d", id)
	}
	return seller, nil
}

func (s *SellerRepository) LockByID(ctx context.Context, id int64) (*domain.Seller, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1 FOR UPDATE`, id)
	seller, err := scanSeller(row)
	if err != nil {
		return nil, convertErr(err, "locking seller %d", id)
	}
	return seller, nil
}

func (s *SellerRepository) UpdateTrustLevel(ctx context.Context, id int64, level domain.TrustLevel) error {
	tag, err := s.conn.Exec(ctx,
		`UPDATE sellers SET trust_level = $2, updated_at = now() WHERE id = $1`, id, string(level))
	if err != nil {
		return convertErr(err, "updating trust level of seller %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating trust level of seller %d", id)
	}
	return nil
}

// RecordSale adds amount to the lifetime sales volume and completedSales to the completed sales counter.
func (s *SellerRepository) RecordSale(
	ctx context.Context,
	id int64,
	amount decimal.Decimal,
	completedSales int,
) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE sellers
		SET completed_sales = completed_sales + $3, sales_volume = sales_volume + $2, updated_at = now()
		WHERE id = $1`, id, amount, completedSales)
	if err != nil {
		return convertErr(err, "recording sale of seller %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "recording sale of seller %d", id)
	}
	return nil
}

func (s *SellerRepository) RecordChargeback(ctx context.Context, id int64, at time.Time) (*domain.Seller, error) {
	row := s.conn.QueryRow(ctx, `
		UPDATE sellers
		SET chargebacks_received = chargebacks_received + 1, last_chargeback_at = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+sellerColumns, id, at)
	seller, err := scanSeller(row)
	if err != nil {
		return nil, convertErr(err, "recording chargeback of seller %d", id)
	}
	return seller, nil
}

func (s *SellerRepository) RecordDispute(ctx context.Context, id int64) (*domain.Seller, error) {
	row := s.conn.QueryRow(ctx, `
		UPDATE sellers SET disputed_sales = disputed_sales + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+sellerColumns, id)
	seller, err := scanSeller(row)
	if err != nil {
		return nil, convertErr(err, "recording dispute of seller %d", id)
	}
	return seller, nil
}

// ListIDs pages over seller ids in ascending order, starting after afterID.
func (s *SellerRepository) ListIDs(ctx context.Context, afterID int64, limit uint) ([]int64, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT id FROM sellers WHERE id > $1 ORDER BY id LIMIT $2`, afterID, int64(limit))
	if err != nil {
		return nil, convertErr(err, "listing seller ids")
	}
	ids, collectErr := pgx.CollectRows(rows, pgx.RowTo[int64])
	if collectErr != nil {
		return nil, convertErr(collectErr, "listing seller ids")
	}
	return ids, nil
}

func scanSeller(row pgx.Row) (*domain.Seller, error) {
	var (
		seller     domain.Seller
		trustLevel string
	)
	if err := row.Scan(
		&seller.ID,
		&seller.CreatedAt,
		&seller.UpdatedAt,
		&seller.AccountCreatedAt,
		&trustLevel,
		&seller.CompletedSales,
		&seller.ChargebacksReceived,
		&seller.DisputedSales,
		&seller.LastChargebackAt,
		&seller.PayoutAccountID,
		&seller.FeeOverride,
		&seller.SubscriptionTier,
		&seller.SalesVolume,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	seller.TrustLevel = domain.TrustLevel(trustLevel)
	return &seller, nil
}

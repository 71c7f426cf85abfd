package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, created_at, updated_at, user_id, wallet_id, amount, method, payment_details, status,
	approved_by, approved_at, rejection_reason, rejected_at, cancelled_at, completed_at, transaction_id`

type WithdrawalRepository struct {
	conn uow.DBTX
}

func NewWithdrawalRepository(conn uow.DBTX) *WithdrawalRepository {
	return &WithdrawalRepository{conn: conn}
}

func (w *WithdrawalRepository) Create(
	ctx context.Context,
	args repoargs.CreateWithdrawal,
) (*domain.WithdrawalRequest, error) {
	details := args.PaymentDetails
	if details == nil {
		details = domain.Metadata{}
	}
	row := w.conn.QueryRow(ctx, `
		INSERT INTO withdrawal_requests (user_id, wallet_id, amount, method, payment_details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+withdrawalColumns, args.UserID, args.WalletID, args.Amount, args.Method, details)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "creating withdrawal request for user %d", args.UserID)
	}
	return request, nil
}

func (w *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error) {
	row := w.conn.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "getting withdrawal request %d", id)
	}
	return request, nil
}

func (w *WithdrawalRepository) LockByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error) {
	row := w.conn.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "locking withdrawal request %d", id)
	}
	return request, nil
}

func (w *WithdrawalRepository) ListByUser(
	ctx context.Context,
	userID int64,
	statuses []domain.WithdrawalStatus,
) ([]domain.WithdrawalRequest, error) {
	filter := make([]string, 0, len(statuses))
	for _, st := range statuses {
		filter = append(filter, string(st))
	}
	rows, err := w.conn.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawal_requests
		WHERE user_id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2))
		ORDER BY created_at DESC, id DESC`, userID, filter)
	if err != nil {
		return nil, convertErr(err, "listing withdrawal requests of user %d", userID)
	}
	defer rows.Close()

	var requests = make([]domain.WithdrawalRequest, 0)
	for rows.Next() {
		request, scanErr := scanWithdrawal(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing withdrawal requests of user %d", userID)
		}
		requests = append(requests, *request)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing withdrawal requests of user %d", userID)
	}
	return requests, nil
}

// Approve moves a pending request to approved. domain.ErrRecordNotFound means it was not pending.
func (w *WithdrawalRepository) Approve(
	ctx context.Context,
	id, approvedBy int64,
	at time.Time,
) (*domain.WithdrawalRequest, error) {
	row := w.conn.QueryRow(ctx, `
		UPDATE withdrawal_requests
		SET status = 'approved', approved_by = $2, approved_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+withdrawalColumns, id, approvedBy, at)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "approving withdrawal request %d", id)
	}
	return request, nil
}

func (w *WithdrawalRepository) Reject(
	ctx context.Context,
	id int64,
	reason string,
	at time.Time,
) (*domain.WithdrawalRequest, error) {
	row := w.conn.QueryRow(ctx, `
		UPDATE withdrawal_requests
		SET status = 'rejected', rejection_reason = $2, rejected_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+withdrawalColumns, id, reason, at)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "rejecting withdrawal request %d", id)
	}
	return request, nil
}

func (w *WithdrawalRepository) Cancel(ctx context.Context, id int64, at time.Time) (*domain.WithdrawalRequest, error) {
	row := w.conn.QueryRow(ctx, `
		UPDATE withdrawal_requests
		SET status = 'cancelled', cancelled_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+withdrawalColumns, id, at)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "cancelling withdrawal request %d", id)
	}
	return request, nil
}

// Complete links the debiting ledger transaction to an approved request.
func (w *WithdrawalRepository) Complete(
	ctx context.Context,
	id, transactionID int64,
	at time.Time,
) (*domain.WithdrawalRequest, error) {
	row := w.conn.QueryRow(ctx, `
		UPDATE withdrawal_requests
		SET status = 'completed', transaction_id = $2, completed_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'approved'
		RETURNING `+withdrawalColumns, id, transactionID, at)
	request, err := scanWithdrawal(row)
	if err != nil {
		return nil, convertErr(err, "completing withdrawal request %d", id)
	}
	return request, nil
}

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var (
		request domain.WithdrawalRequest
		status  string
	)
	if err := row.Scan(
		&request.ID,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.UserID,
		&request.WalletID,
		&request.Amount,
		&request.Method,
		&request.PaymentDetails,
		&status,
		&request.ApprovedBy,
		&request.ApprovedAt,
		&request.RejectionReason,
		&request.RejectedAt,
		&request.CancelledAt,
		&request.CompletedAt,
		&request.TransactionID,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	request.Status = domain.WithdrawalStatus(status)
	return &request, nil
}

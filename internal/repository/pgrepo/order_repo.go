package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	orderColumns = `id, created_at, updated_at, order_group_id, buyer_id, seller_id, subtotal, platform_fee,
		seller_payout, total, currency, payment_status, status, payment_intent_id, transfer_id, failure_reason,
		captured_at`
	itemColumns = `i.id, i.created_at, i.updated_at, i.order_id, i.product_kind, i.product_id, i.price, i.quantity,
		i.total, i.status, i.funds_released, i.auto_released, i.buyer_confirmed, i.auto_release_at, i.delivered_at`
)

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// CreateOrder inserts the order and its items. Items go in a single batch.
func (o *OrderRepository) CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		INSERT INTO orders (order_group_id, buyer_id, seller_id, subtotal, platform_fee, seller_payout, total, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+orderColumns,
		args.OrderGroupID.String(),
		args.BuyerID,
		args.SellerID,
		args.Subtotal,
		args.PlatformFee,
		args.SellerPayout,
		args.Total,
		args.Currency,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for seller %d in group %s", args.SellerID, args.OrderGroupID)
	}

	batch := new(pgx.Batch)
	for _, item := range args.Items {
		batch.Queue(`
			INSERT INTO order_items AS i (order_id, product_kind, product_id, price, quantity, total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+itemColumns,
			order.ID, string(item.Product.Kind), item.Product.ID, item.Price, item.Quantity, item.Total,
		)
	}
	results := o.conn.SendBatch(ctx, batch)

	order.Items = make([]domain.OrderItem, 0, len(args.Items))
	for range args.Items {
		orderItem, itemErr := scanOrderItem(results.QueryRow())
		if itemErr != nil {
			_ = results.Close()
			return nil, convertErr(itemErr, "creating items of order %d", order.ID)
		}
		order.Items = append(order.Items, *orderItem)
	}
	if closeErr := results.Close(); closeErr != nil {
		return nil, convertErr(closeErr, "creating items of order %d", order.ID)
	}
	return order, nil
}

func (o *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "getting order %d", id)
	}
	if itemsErr := o.attachItems(ctx, []*domain.Order{order}); itemsErr != nil {
		return nil, itemsErr
	}
	return order, nil
}

// LockByID locks the order row. Items are read after the lock is taken.
func (o *OrderRepository) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "locking order %d", id)
	}
	if itemsErr := o.attachItems(ctx, []*domain.Order{order}); itemsErr != nil {
		return nil, itemsErr
	}
	return order, nil
}

// GetByGroupID returns sibling orders of one checkout ordered by id, with items.
func (o *OrderRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_group_id = $1 ORDER BY id`, groupID.String())
	if err != nil {
		return nil, convertErr(err, "getting orders of group %s", groupID)
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting orders of group %s", groupID)
	}
	if len(orders) == 0 {
		return nil, convertErr(pgx.ErrNoRows, "getting orders of group %s", groupID)
	}

	ptrs := make([]*domain.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if itemsErr := o.attachItems(ctx, ptrs); itemsErr != nil {
		return nil, itemsErr
	}
	return orders, nil
}

func (o *OrderRepository) SetPaymentIntent(ctx context.Context, groupID uuid.UUID, intentID string) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE orders SET payment_intent_id = $2, updated_at = now()
		WHERE order_group_id = $1 AND payment_status = 'pending'`, groupID.String(), intentID)
	if err != nil {
		return convertErr(err, "setting payment intent of group %s", groupID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting payment intent of group %s", groupID)
	}
	return nil
}

// MarkGroupCaptured stamps the capture time on pending siblings that have not been stamped yet.
func (o *OrderRepository) MarkGroupCaptured(ctx context.Context, groupID uuid.UUID, at time.Time) error {
	_, err := o.conn.Exec(ctx, `
		UPDATE orders SET captured_at = $2, updated_at = now()
		WHERE order_group_id = $1 AND captured_at IS NULL`, groupID.String(), at)
	if err != nil {
		return convertErr(err, "marking group %s captured", groupID)
	}
	return nil
}

// MarkPaid moves a pending order to paid/processing and stores the provider transfer id.
func (o *OrderRepository) MarkPaid(ctx context.Context, id int64, transferID string) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		UPDATE orders
		SET payment_status = 'paid', status = 'processing', transfer_id = $2, failure_reason = '', updated_at = now()
		WHERE id = $1 AND payment_status = 'pending'
		RETURNING `+orderColumns, id, transferID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "marking order %d paid", id)
	}
	return order, nil
}

func (o *OrderRepository) MarkTransferFailed(ctx context.Context, id int64, reason string) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE orders SET payment_status = 'transfer_failed', failure_reason = $2, updated_at = now()
		WHERE id = $1 AND payment_status = 'pending'`, id, reason)
	if err != nil {
		return convertErr(err, "marking order %d transfer failed", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking order %d transfer failed", id)
	}
	return nil
}

// SetFailureReason records why the transfer of a pending order is blocked. The order stays retriable.
func (o *OrderRepository) SetFailureReason(ctx context.Context, id int64, reason string) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE orders SET failure_reason = $2, updated_at = now()
		WHERE id = $1 AND payment_status = 'pending'`, id, reason)
	if err != nil {
		return convertErr(err, "setting failure reason of order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting failure reason of order %d", id)
	}
	return nil
}

func (o *OrderRepository) MarkRefunded(ctx context.Context, id int64) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE orders SET payment_status = 'refunded', status = 'cancelled', updated_at = now()
		WHERE id = $1 AND payment_status = 'transfer_failed'`, id)
	if err != nil {
		return convertErr(err, "marking order %d refunded", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking order %d refunded", id)
	}
	return nil
}

// ListRetriable returns captured orders still waiting for their seller transfer.
func (o *OrderRepository) ListRetriable(ctx context.Context, limit uint) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE payment_status = 'pending' AND captured_at IS NOT NULL
		ORDER BY id
		LIMIT $1`, int64(limit))
	if err != nil {
		return nil, convertErr(err, "listing retriable orders")
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "listing retriable orders")
	}
	return orders, nil
}

// ListDueItems selects delivered, unconfirmed, unreleased items whose auto-release time has come.
func (o *OrderRepository) ListDueItems(ctx context.Context, now time.Time, limit uint) ([]repoargs.DueItem, error) {
	rows, err := o.conn.Query(ctx, `
		SELECT `+itemColumns+`, o.seller_id, o.buyer_id, o.currency, o.payment_status
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.status = 'delivered'
		  AND o.payment_status = 'paid'
		  AND NOT i.funds_released
		  AND NOT i.buyer_confirmed
		  AND i.auto_release_at <= $1
		ORDER BY i.auto_release_at, i.id
		LIMIT $2`, now, int64(limit))
	if err != nil {
		return nil, convertErr(err, "listing items due for auto-release")
	}
	defer rows.Close()

	var items = make([]repoargs.DueItem, 0)
	for rows.Next() {
		dueItem, scanErr := scanDueItem(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing items due for auto-release")
		}
		items = append(items, *dueItem)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing items due for auto-release")
	}
	return items, nil
}

// LockItem locks one order item and returns it with the order's parties.
func (o *OrderRepository) LockItem(ctx context.Context, itemID int64) (*repoargs.DueItem, error) {
	row := o.conn.QueryRow(ctx, `
		SELECT `+itemColumns+`, o.seller_id, o.buyer_id, o.currency, o.payment_status
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.id = $1
		FOR UPDATE OF i`, itemID)
	dueItem, err := scanDueItem(row)
	if err != nil {
		return nil, convertErr(err, "locking order item %d", itemID)
	}
	return dueItem, nil
}

func (o *OrderRepository) MarkItemDelivered(ctx context.Context, itemID int64, deliveredAt, autoReleaseAt time.Time) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE order_items
		SET status = 'delivered', delivered_at = $2, auto_release_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'`, itemID, deliveredAt, autoReleaseAt)
	if err != nil {
		return convertErr(err, "marking order item %d delivered", itemID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking order item %d delivered", itemID)
	}
	return nil
}

// MarkItemReleased flags seller funds as released. Each item is released once.
func (o *OrderRepository) MarkItemReleased(ctx context.Context, args repoargs.MarkItemReleased) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE order_items
		SET funds_released = TRUE, buyer_confirmed = TRUE, auto_released = $2, status = 'completed',
		    released_at = $3, updated_at = now()
		WHERE id = $1 AND NOT funds_released`, args.ItemID, args.Auto, args.ReleasedAt)
	if err != nil {
		return convertErr(err, "marking order item %d released", args.ItemID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking order item %d released", args.ItemID)
	}
	return nil
}

// MarkCompleted closes a paid order once the funds of all its items are released.
func (o *OrderRepository) MarkCompleted(ctx context.Context, id int64) error {
	tag, err := o.conn.Exec(ctx, `
		UPDATE orders SET status = 'completed', updated_at = now()
		WHERE id = $1 AND payment_status = 'paid' AND status <> 'completed'`, id)
	if err != nil {
		return convertErr(err, "marking order %d completed", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking order %d completed", id)
	}
	return nil
}

func (o *OrderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	ids := make([]int64, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = order
		order.Items = make([]domain.OrderItem, 0)
	}

	rows, err := o.conn.Query(ctx,
		`SELECT `+itemColumns+` FROM order_items i WHERE i.order_id = ANY($1) ORDER BY i.id`, ids)
	if err != nil {
		return convertErr(err, "getting items of orders %v", ids)
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scanOrderItem(rows)
		if scanErr != nil {
			return convertErr(scanErr, "getting items of orders %v", ids)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, *item)
		}
	}
	return convertErr(rows.Err(), "getting items of orders %v", ids)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var orders = make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err() //nolint:wrapcheck
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order                 domain.Order
		groupID               string
		paymentStatus, status string
	)
	if err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&groupID,
		&order.BuyerID,
		&order.SellerID,
		&order.Subtotal,
		&order.PlatformFee,
		&order.SellerPayout,
		&order.Total,
		&order.Currency,
		&paymentStatus,
		&status,
		&order.PaymentIntentID,
		&order.TransferID,
		&order.FailureReason,
		&order.CapturedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	parsed, parseErr := uuid.Parse(groupID)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing order group id `%s`: %w", groupID, parseErr)
	}
	order.OrderGroupID = parsed
	order.PaymentStatus = domain.PaymentStatus(paymentStatus)
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

// itemScanTargets returns scan destinations matching itemColumns.
func itemScanTargets(item *domain.OrderItem, kind, status *string) []any {
	return []any{
		&item.ID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.OrderID,
		kind,
		&item.Product.ID,
		&item.Price,
		&item.Quantity,
		&item.Total,
		status,
		&item.FundsReleased,
		&item.AutoReleased,
		&item.BuyerConfirmed,
		&item.AutoReleaseAt,
		&item.DeliveredAt,
	}
}

func scanOrderItem(row pgx.Row) (*domain.OrderItem, error) {
	var (
		item         domain.OrderItem
		kind, status string
	)
	if err := row.Scan(itemScanTargets(&item, &kind, &status)...); err != nil {
		return nil, err //nolint:wrapcheck
	}
	item.Product.Kind = domain.ProductKind(kind)
	item.Status = domain.ItemStatus(status)
	return &item, nil
}

func scanDueItem(row pgx.Row) (*repoargs.DueItem, error) {
	var (
		dueItem                     repoargs.DueItem
		kind, status, paymentStatus string
	)
	targets := append(itemScanTargets(&dueItem.Item, &kind, &status),
		&dueItem.SellerID, &dueItem.BuyerID, &dueItem.Currency, &paymentStatus)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck
		}
		return nil, fmt.Errorf("scanning order item: %w", err)
	}
	dueItem.Item.Product.Kind = domain.ProductKind(kind)
	dueItem.Item.Status = domain.ItemStatus(status)
	dueItem.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return &dueItem, nil
}

package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	db        *sqlx.DB
	txManager trm.Manager
	qb        sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB, txManager trm.Manager) *postgresRepo {
	return &postgresRepo{
		db:        db,
		txManager: txManager,
		qb:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	if len(o.Items) == 0 {
		return entities.Order{}, entities.ErrEmptyOrder
	}
	if err := o.Validate(); err != nil {
		return entities.Order{}, err
	}

	created := o
	created.Items = make([]entities.LineItem, len(o.Items))
	copy(created.Items, o.Items)

	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		query, args := r.qb.Insert("orders").
			Columns(
				"order_number", "user_id", "guest_email", "contact_email",
				"status", "payment_method", "payment_status", "payment_reference",
				"subtotal", "shipping_cost", "tax", "total", "currency",
				"shipping_address", "billing_address", "shipping_method", "customer_notes",
			).
			Values(
				o.OrderNumber, nullString(entities.UserID(o.Customer)), nullString(entities.GuestEmail(o.Customer)), nullString(o.Customer.ContactEmail()),
				o.Status, o.PaymentMethod, o.PaymentStatus, nullString(o.PaymentReference),
				o.Totals.Subtotal, o.Totals.ShippingCost, o.Totals.Tax, o.Totals.Total, o.Currency,
				JSON[entities.Address]{o.ShippingAddress}, JSON[entities.Address]{o.BillingAddress},
				JSON[entities.ShippingMethod]{o.ShippingMethod}, nullString(o.CustomerNotes),
			).
			Suffix("RETURNING id, created_at, updated_at").
			MustSql()

		var row Order
		if err := r.getContext(ctx, &row, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", entities.ErrOrderNumberConflict, o.OrderNumber)
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}
		created.ID, created.CreatedAt, created.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt

		// One statement per item: a multi-row RETURNING does not guarantee row order.
		for i, it := range o.Items {
			query, args := r.qb.Insert("order_line_items").
				Columns("order_id", "product_id", "product_snapshot", "quantity", "unit_price", "line_total").
				Values(row.ID, it.ProductID, JSON[entities.ProductSnapshot]{it.Snapshot}, it.Quantity, it.UnitPrice, it.LineTotal).
				Suffix("RETURNING id").
				MustSql()
			if err := r.getContext(ctx, &created.Items[i].ID, query, args...); err != nil {
				return fmt.Errorf("failed to insert line item for product %d: %w", it.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return entities.Order{}, err
	}

	return created, nil
}

func (r *postgresRepo) FindByPaymentReference(ctx context.Context, ref string) (entities.Order, error) {
	return r.findOne(ctx, sq.Eq{"payment_reference": ref})
}

func (r *postgresRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (entities.Order, error) {
	return r.findOne(ctx, sq.Eq{"order_number": orderNumber})
}

// UpdatePaymentStatus applies upd as one conditional UPDATE. When the expected status
// does not match, the stored order is returned unchanged with applied=false.
func (r *postgresRepo) UpdatePaymentStatus(ctx context.Context, orderID int64, upd entities.PaymentUpdate) (entities.Order, bool, error) {
	b := r.qb.Update("orders").
		Set("payment_status", upd.PaymentStatus).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": orderID})
	if upd.Status != nil {
		b = b.Set("status", *upd.Status)
	}
	if upd.Expected != nil {
		b = b.Where(sq.Eq{"payment_status": *upd.Expected})
	}
	query, args := b.Suffix("RETURNING " + strings.Join(orderColumns, ", ")).MustSql()

	return r.compareAndSet(ctx, orderID, query, args, nil)
}

// UpdateStatus moves the fulfilment status from change.From to change.To and records
// the transition in order_status_history in the same transaction.
func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID int64, change entities.StatusChange) (entities.Order, bool, error) {
	query, args := r.qb.Update("orders").
		Set("status", change.To).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": orderID, "status": change.From}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		MustSql()

	history := func(ctx context.Context) error {
		query, args := r.qb.Insert("order_status_history").
			Columns("order_id", "from_status", "to_status", "changed_by", "notes").
			Values(orderID, change.From, change.To, change.ChangedBy, nullString(change.Notes)).
			MustSql()
		if _, err := r.execContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert status history: %w", err)
		}
		return nil
	}

	return r.compareAndSet(ctx, orderID, query, args, history)
}

// LatestOrders returns up to count most recently created orders with their items.
func (r *postgresRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		Limit(uint64(count)).
		MustSql()

	var rows []Order
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	if len(rows) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]int64, len(rows))
	for i, o := range rows {
		ids[i] = o.ID
	}
	items, err := r.lineItems(ctx, ids...)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(rows))
	for _, o := range rows {
		result = append(result, OrderToEntity(o, items[o.ID]))
	}
	return result, nil
}

func (r *postgresRepo) compareAndSet(ctx context.Context, orderID int64, query string, args []any, onApplied func(ctx context.Context) error) (entities.Order, bool, error) {
	var (
		order   entities.Order
		applied bool
	)
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		var row Order
		err := r.getContext(ctx, &row, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			order, err = r.findOne(ctx, sq.Eq{"id": orderID})
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if onApplied != nil {
			if err := onApplied(ctx); err != nil {
				return err
			}
		}

		items, err := r.lineItems(ctx, row.ID)
		if err != nil {
			return err
		}
		order, applied = OrderToEntity(row, items[row.ID]), true
		return nil
	})
	if err != nil {
		return entities.Order{}, false, err
	}
	return order, applied, nil
}

func (r *postgresRepo) findOne(ctx context.Context, where sq.Eq) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("id").
		Limit(1).
		MustSql()

	var row Order
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.lineItems(ctx, row.ID)
	if err != nil {
		return entities.Order{}, err
	}
	return OrderToEntity(row, items[row.ID]), nil
}

func (r *postgresRepo) lineItems(ctx context.Context, orderIDs ...int64) (map[int64][]LineItem, error) {
	query, args := r.qb.Select(lineItemColumns...).
		From("order_line_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("id").
		MustSql()

	var items []LineItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select line items: %w", err)
	}

	byOrder := make(map[int64][]LineItem, len(orderIDs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return trm.Conn(ctx, r.db).ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	return trm.Conn(ctx, r.db).GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	return trm.Conn(ctx, r.db).SelectContext(ctx, dest, query, args...)
}

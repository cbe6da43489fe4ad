package repo

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/SergeyBogomolovv/checkout-service/pkg/trm"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow     = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	addressJSON = []byte(`{"first_name":"Ana","last_name":"García","street":"Gran Via 1","city":"Madrid","postal_code":"28013","country":"ES"}`)
	methodJSON  = []byte(`{"id":"standard","name":"Standard shipping","price":"5.99","free_over":null}`)
)

func newTestRepo(t *testing.T) (*postgresRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewPostgresRepo(sqlxDB, trm.NewManager(sqlxDB)), mock
}

func testOrder() entities.Order {
	items := []entities.LineItem{
		entities.NewLineItem(1, entities.ProductSnapshot{Name: "Wine A", SKU: "W-A"}, 2, decimal.RequireFromString("25.00")),
		entities.NewLineItem(2, entities.ProductSnapshot{Name: "Wine B", SKU: "W-B"}, 1, decimal.RequireFromString("30.00")),
	}
	return entities.Order{
		OrderNumber:      "ORD-1740830400000-ABC123",
		Customer:         entities.Guest{Email: "guest@example.com"},
		Status:           entities.OrderStatusPending,
		PaymentMethod:    entities.PaymentMethodCard,
		PaymentStatus:    entities.PaymentStatusPending,
		PaymentReference: "pi_1",
		Totals: entities.NewTotals(
			decimal.RequireFromString("80.00"),
			decimal.RequireFromString("5.99"),
			decimal.RequireFromString("16.80"),
		),
		Currency: "EUR",
		Items:    items,
	}
}

func orderRow(id int64, paymentStatus, status string) []driver.Value {
	return []driver.Value{
		id, "ORD-1740830400000-ABC123", nil, "guest@example.com", "guest@example.com",
		status, "card", paymentStatus, "pi_1",
		"80.00", "5.99", "16.80", "102.79", "EUR",
		addressJSON, addressJSON, methodJSON, nil,
		testNow, testNow,
	}
}

func itemRows(orderID int64) *sqlmock.Rows {
	return sqlmock.NewRows(lineItemColumns).
		AddRow(int64(10), orderID, int64(1), []byte(`{"name":"Wine A","sku":"W-A"}`), 2, "25.00", "50.00").
		AddRow(int64(11), orderID, int64(2), []byte(`{"name":"Wine B","sku":"W-B"}`), 1, "30.00", "30.00")
}

var (
	insertOrderSQL = regexp.QuoteMeta("INSERT INTO orders (order_number,user_id,guest_email,contact_email,status,payment_method,payment_status,payment_reference,subtotal,shipping_cost,tax,total,currency,shipping_address,billing_address,shipping_method,customer_notes) VALUES") + ".*" + regexp.QuoteMeta("RETURNING id, created_at, updated_at")
	insertItemsSQL = regexp.QuoteMeta("INSERT INTO order_line_items (order_id,product_id,product_snapshot,quantity,unit_price,line_total) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id")
	selectItemsSQL = regexp.QuoteMeta("SELECT id, order_id, product_id, product_snapshot, quantity, unit_price, line_total FROM order_line_items WHERE order_id IN ($1) ORDER BY id")
	selectOrderSQL = regexp.QuoteMeta("FROM orders WHERE")
)

func TestPostgresRepo_Create(t *testing.T) {
	dbErr := errors.New("connection lost")

	testCases := []struct {
		name         string
		mockBehavior func(mock sqlmock.Sqlmock)
		wantErr      error
	}{
		{
			name: "order and items in one transaction",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(insertOrderSQL).
					WithArgs(
						"ORD-1740830400000-ABC123", nil, "guest@example.com", "guest@example.com",
						"pending", "card", "pending", "pi_1",
						"80", "5.99", "16.8", "102.79", "EUR",
						sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil,
					).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), testNow, testNow))
				mock.ExpectQuery(insertItemsSQL).
					WithArgs(int64(7), int64(1), sqlmock.AnyArg(), 2, "25", "50").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
				mock.ExpectQuery(insertItemsSQL).
					WithArgs(int64(7), int64(2), sqlmock.AnyArg(), 1, "30", "30").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
				mock.ExpectCommit()
			},
		},
		{
			name: "line item failure rolls back the order row",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(insertOrderSQL).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), testNow, testNow))
				mock.ExpectQuery(insertItemsSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
				mock.ExpectQuery(insertItemsSQL).WillReturnError(dbErr)
				mock.ExpectRollback()
			},
			wantErr: dbErr,
		},
		{
			name: "duplicate order number is a retryable conflict",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(insertOrderSQL).WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_order_number_key"})
				mock.ExpectRollback()
			},
			wantErr: entities.ErrOrderNumberConflict,
		},
		{
			name: "begin fails",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(dbErr)
			},
			wantErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, mock := newTestRepo(t)
			tc.mockBehavior(mock)

			got, err := r.Create(context.Background(), testOrder())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), got.ID)
				assert.Equal(t, testNow, got.CreatedAt)
				require.Len(t, got.Items, 2)
				assert.Equal(t, int64(1), got.Items[0].ProductID)
				assert.Equal(t, int64(11), got.Items[0].ID)
				assert.Equal(t, int64(2), got.Items[1].ProductID)
				assert.Equal(t, int64(10), got.Items[1].ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_CreateRollbackLeavesNothing(t *testing.T) {
	r, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertOrderSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), testNow, testNow))
	mock.ExpectQuery(insertItemsSQL).WillReturnError(errors.New("check constraint violated"))
	mock.ExpectRollback()
	mock.ExpectQuery(selectOrderSQL).
		WithArgs("ORD-1740830400000-ABC123").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := r.Create(context.Background(), testOrder())
	require.Error(t, err)

	_, err = r.GetByOrderNumber(context.Background(), "ORD-1740830400000-ABC123")
	assert.ErrorIs(t, err, entities.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_CreateRejectsEmptyOrder(t *testing.T) {
	r, mock := newTestRepo(t)

	o := testOrder()
	o.Items = nil

	_, err := r.Create(context.Background(), o)
	assert.ErrorIs(t, err, entities.ErrEmptyOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindByPaymentReference(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectQuery(selectOrderSQL + ".*payment_reference = \\$1").
			WithArgs("pi_1").
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(7, "pending", "pending")...))
		mock.ExpectQuery(selectItemsSQL).WithArgs(int64(7)).WillReturnRows(itemRows(7))

		got, err := r.FindByPaymentReference(context.Background(), "pi_1")
		require.NoError(t, err)

		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, entities.Guest{Email: "guest@example.com"}, got.Customer)
		assert.Equal(t, entities.PaymentStatusPending, got.PaymentStatus)
		assert.True(t, got.Totals.Valid())
		assert.Equal(t, "Madrid", got.ShippingAddress.City)
		assert.Equal(t, "standard", got.ShippingMethod.ID)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Wine A", got.Items[0].Snapshot.Name)
		assert.True(t, got.Items[0].LineTotal.Equal(decimal.NewFromInt(50)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectQuery(selectOrderSQL).WithArgs("pi_missing").WillReturnRows(sqlmock.NewRows(orderColumns))

		_, err := r.FindByPaymentReference(context.Background(), "pi_missing")
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_UpdatePaymentStatus(t *testing.T) {
	paid := entities.PaymentStatusPaid
	pending := entities.PaymentStatusPending
	processing := entities.OrderStatusProcessing

	updateSQL := regexp.QuoteMeta("UPDATE orders SET payment_status = $1, updated_at = now(), status = $2 WHERE id = $3 AND payment_status = $4 RETURNING id, order_number")

	t.Run("applied", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(updateSQL).
			WithArgs("paid", "processing", int64(7), "pending").
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(7, "paid", "processing")...))
		mock.ExpectQuery(selectItemsSQL).WithArgs(int64(7)).WillReturnRows(itemRows(7))
		mock.ExpectCommit()

		got, applied, err := r.UpdatePaymentStatus(context.Background(), 7, entities.PaymentUpdate{
			PaymentStatus: paid,
			Status:        &processing,
			Expected:      &pending,
		})
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, entities.PaymentStatusPaid, got.PaymentStatus)
		assert.Equal(t, entities.OrderStatusProcessing, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expected status mismatch returns current order", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(updateSQL).
			WithArgs("paid", "processing", int64(7), "pending").
			WillReturnRows(sqlmock.NewRows(orderColumns))
		mock.ExpectQuery(selectOrderSQL + ".*id = \\$1").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(7, "refunded", "processing")...))
		mock.ExpectQuery(selectItemsSQL).WithArgs(int64(7)).WillReturnRows(itemRows(7))
		mock.ExpectCommit()

		got, applied, err := r.UpdatePaymentStatus(context.Background(), 7, entities.PaymentUpdate{
			PaymentStatus: paid,
			Status:        &processing,
			Expected:      &pending,
		})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, entities.PaymentStatusRefunded, got.PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(updateSQL).WillReturnRows(sqlmock.NewRows(orderColumns))
		mock.ExpectQuery(selectOrderSQL).WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(orderColumns))
		mock.ExpectRollback()

		_, _, err := r.UpdatePaymentStatus(context.Background(), 99, entities.PaymentUpdate{
			PaymentStatus: paid,
			Status:        &processing,
			Expected:      &pending,
		})
		assert.ErrorIs(t, err, entities.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepo_UpdateStatus(t *testing.T) {
	updateSQL := regexp.QuoteMeta("UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status = $3 RETURNING id")
	historySQL := regexp.QuoteMeta("INSERT INTO order_status_history (order_id,from_status,to_status,changed_by,notes) VALUES ($1,$2,$3,$4,$5)")

	change := entities.StatusChange{
		From:      entities.OrderStatusProcessing,
		To:        entities.OrderStatusShipped,
		ChangedBy: "admin@example.com",
		Notes:     "tracking 1Z999",
	}

	t.Run("applied with history", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(updateSQL).
			WithArgs("shipped", int64(7), "processing").
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(7, "paid", "shipped")...))
		mock.ExpectExec(historySQL).
			WithArgs(int64(7), "processing", "shipped", "admin@example.com", "tracking 1Z999").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(selectItemsSQL).WithArgs(int64(7)).WillReturnRows(itemRows(7))
		mock.ExpectCommit()

		got, applied, err := r.UpdateStatus(context.Background(), 7, change)
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, entities.OrderStatusShipped, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history failure rolls back the transition", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(updateSQL).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(7, "paid", "shipped")...))
		mock.ExpectExec(historySQL).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, _, err := r.UpdateStatus(context.Background(), 7, change)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale from status", func(t *testing.T) {
		r, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(updateSQL).WillReturnRows(sqlmock.NewRows(orderColumns))
		mock.ExpectQuery(selectOrderSQL).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(7, "paid", "cancelled")...))
		mock.ExpectQuery(selectItemsSQL).WithArgs(int64(7)).WillReturnRows(itemRows(7))
		mock.ExpectCommit()

		got, applied, err := r.UpdateStatus(context.Background(), 7, change)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, entities.OrderStatusCancelled, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCatalog_ProductsByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	catalog := NewPostgresCatalog(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sku, name, price, is_active, stock_quantity, attributes FROM products WHERE id = ANY($1)")).
		WithArgs(pq.Array([]int64{1, 99})).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(int64(1), "W-A", "Wine A", "25.00", true, 12, []byte(`{"vintage":"2019"}`)).
			AddRow(int64(99), "W-Z", "Retired", "50.00", false, 0, []byte(`{}`)))

	got, err := catalog.ProductsByIDs(context.Background(), []int64{1, 99})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "2019", got[0].Attributes["vintage"])
	assert.False(t, got[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

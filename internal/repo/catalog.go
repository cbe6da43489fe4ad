package repo

import (
	"context"
	"fmt"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type postgresCatalog struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresCatalog(db *sqlx.DB) *postgresCatalog {
	return &postgresCatalog{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ProductsByIDs loads every requested product in one round trip. Missing ids are
// simply absent from the result.
func (c *postgresCatalog) ProductsByIDs(ctx context.Context, ids []int64) ([]entities.Product, error) {
	if len(ids) == 0 {
		return []entities.Product{}, nil
	}

	query, args := c.qb.Select(productColumns...).
		From("products").
		Where("id = ANY(?)", pq.Array(ids)).
		MustSql()

	var rows []Product
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	products := make([]entities.Product, 0, len(rows))
	for _, p := range rows {
		products = append(products, ProductToEntity(p))
	}
	return products, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swapmarket/swapmarket/internal/domain/product"
)

const productColumns = `id, product_id, owner_id, title, description, category_id, price, status, accepts_trade_offers, trade_preferences, created_at, updated_at`

// ProductRepository implements product.Repository.
type ProductRepository struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	prefs, err := marshalPreferences(p.TradePreferences)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO products (product_id, owner_id, title, description, category_id, price, status, accepts_trade_offers, trade_preferences, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.ProductID, p.OwnerID, p.Title, p.Description, p.CategoryID, p.Price, p.Status, p.AcceptsTradeOffers, prefs, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	row := r.q.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE product_id=$1
	`, productID)
	return scanProduct(row)
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*product.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE owner_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) ListCandidates(ctx context.Context, filter product.CandidateFilter) ([]*product.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE owner_id <> $1 AND status=$2 AND accepts_trade_offers`
	args := []interface{}{filter.ExcludeOwnerID, product.StatusActive}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		query += " AND category_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += " AND price >= $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	prefs, err := marshalPreferences(p.TradePreferences)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		UPDATE products
		SET title=$1, description=$2, category_id=$3, price=$4, status=$5, accepts_trade_offers=$6, trade_preferences=$7, updated_at=$8
		WHERE product_id=$9
	`, p.Title, p.Description, p.CategoryID, p.Price, p.Status, p.AcceptsTradeOffers, prefs, p.UpdatedAt, p.ProductID)
	return err
}

// UpdateStatusIf is a single conditional UPDATE guarded by the current status.
func (r *ProductRepository) UpdateStatusIf(ctx context.Context, productID uuid.UUID, from, to product.Status) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET status=$1, updated_at=NOW() WHERE product_id=$2 AND status=$3
	`, to, productID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	var prefs json.RawMessage
	if err := row.Scan(&p.ID, &p.ProductID, &p.OwnerID, &p.Title, &p.Description, &p.CategoryID, &p.Price, &p.Status, &p.AcceptsTradeOffers, &prefs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if len(prefs) > 0 {
		var tp product.TradePreferences
		if err := json.Unmarshal(prefs, &tp); err != nil {
			return nil, err
		}
		p.TradePreferences = &tp
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*product.Product, error) {
	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func marshalPreferences(tp *product.TradePreferences) ([]byte, error) {
	if tp == nil {
		return nil, nil
	}
	return json.Marshal(tp)
}

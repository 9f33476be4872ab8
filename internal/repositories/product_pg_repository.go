package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"inventory/internal/database"
	"inventory/internal/models"
)

const (
	listProductsSQL = `SELECT id, name, quantity, price, created_at, updated_at
		FROM products ORDER BY id ASC`

	getProductSQL = `SELECT id, name, quantity, price, created_at, updated_at
		FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products (name, quantity, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, quantity, price, created_at, updated_at`

	updateProductSQL = `UPDATE products
		SET name = $1, quantity = $2, price = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, quantity, price, created_at, updated_at`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

// PostgresProductRepository is a ProductRepository speaking raw parameterized
// SQL through the persistence gateway.
type PostgresProductRepository struct {
	gw database.Gateway
}

// NewPostgresProductRepository creates a new instance of PostgresProductRepository.
func NewPostgresProductRepository(gw database.Gateway) *PostgresProductRepository {
	return &PostgresProductRepository{
		gw: gw,
	}
}

// GetAll retrieves every product ordered by ascending ID.
func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	res, err := r.gw.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("get all products: %w", err)
	}

	products := make([]models.Product, 0, len(res.Rows))
	for _, row := range res.Rows {
		p, err := scanProduct(row)
		if err != nil {
			return nil, fmt.Errorf("get all products: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	res, err := r.gw.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("get product %d: %w", id, ErrProductNotFound)
	}
	return scanProduct(res.Rows[0])
}

// Create inserts a new row and fills the product with the store-assigned ID
// and timestamps.
func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	res, err := r.gw.Query(ctx, createProductSQL, product.Name, product.Quantity, product.Price)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	if len(res.Rows) == 0 {
		return fmt.Errorf("create product: insert returned no row")
	}

	created, err := scanProduct(res.Rows[0])
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	*product = *created
	return nil
}

// Update replaces name, quantity and price on the matching row and refreshes
// updated_at. ID and created_at are never touched.
func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	res, err := r.gw.Query(ctx, updateProductSQL,
		product.Name, product.Quantity, product.Price, product.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	if len(res.Rows) == 0 {
		return fmt.Errorf("update product %d: %w", product.ID, ErrProductNotFound)
	}

	updated, err := scanProduct(res.Rows[0])
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	*product = *updated
	return nil
}

// Delete removes the matching row. Hard delete; the ID is never reused.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.gw.Query(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if res.Count == 0 {
		return fmt.Errorf("delete product %d: %w", id, ErrProductNotFound)
	}
	return nil
}

// scanProduct decodes a gateway row into a Product. The gateway returns
// driver-level values, so integer columns may arrive as int32 or int64 and
// DECIMAL columns as pgtype.Numeric.
func scanProduct(row database.Row) (*models.Product, error) {
	id, err := asInt64(row["id"])
	if err != nil {
		return nil, fmt.Errorf("column id: %w", err)
	}

	name, ok := row["name"].(string)
	if !ok {
		return nil, fmt.Errorf("column name: unexpected type %T", row["name"])
	}

	quantity, err := asInt64(row["quantity"])
	if err != nil {
		return nil, fmt.Errorf("column quantity: %w", err)
	}

	price, err := asFloat64(row["price"])
	if err != nil {
		return nil, fmt.Errorf("column price: %w", err)
	}

	createdAt, ok := row["created_at"].(time.Time)
	if !ok {
		return nil, fmt.Errorf("column created_at: unexpected type %T", row["created_at"])
	}
	updatedAt, ok := row["updated_at"].(time.Time)
	if !ok {
		return nil, fmt.Errorf("column updated_at: unexpected type %T", row["updated_at"])
	}

	return &models.Product{
		ID:        id,
		Name:      name,
		Quantity:  int(quantity),
		Price:     price,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", n, err)
		}
		return f, nil
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil {
			return 0, fmt.Errorf("numeric conversion: %w", err)
		}
		return f.Float64, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

package repositories_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/database"
	"inventory/internal/models"
	"inventory/internal/repositories"
)

// fakeGateway records every statement and its bound arguments and replays
// canned results, one per call.
type fakeGateway struct {
	results []*database.Result
	errs    []error
	calls   []gatewayCall
}

type gatewayCall struct {
	sql  string
	args []any
}

func (g *fakeGateway) Query(ctx context.Context, sql string, args ...any) (*database.Result, error) {
	g.calls = append(g.calls, gatewayCall{sql: sql, args: args})
	i := len(g.calls) - 1
	if i < len(g.errs) && g.errs[i] != nil {
		return nil, g.errs[i]
	}
	if i < len(g.results) {
		return g.results[i], nil
	}
	return &database.Result{}, nil
}

func productRow(id int64, name string, quantity int, price any, at time.Time) database.Row {
	return database.Row{
		"id":         id,
		"name":       name,
		"quantity":   quantity,
		"price":      price,
		"created_at": at,
		"updated_at": at,
	}
}

func TestPostgresProductRepository_GetAll(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{results: []*database.Result{{
		Rows: []database.Row{
			productRow(1, "Widget", 5, 9.99, now),
			productRow(2, "Gadget", 3, 19.5, now),
		},
		Count: 2,
	}}}
	repo := repositories.NewPostgresProductRepository(gw)

	products, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, 5, products[0].Quantity)
	assert.Equal(t, 9.99, products[0].Price)
	assert.Contains(t, gw.calls[0].sql, "ORDER BY id ASC")
}

func TestPostgresProductRepository_GetAll_Empty(t *testing.T) {
	gw := &fakeGateway{results: []*database.Result{{Rows: []database.Row{}}}}
	repo := repositories.NewPostgresProductRepository(gw)

	products, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

// The gateway hands back driver-level values; integer columns can arrive as
// int32 and DECIMAL columns as pgtype.Numeric or text.
func TestPostgresProductRepository_DriverValueDecoding(t *testing.T) {
	now := time.Now()
	numeric := pgtype.Numeric{Int: big.NewInt(999), Exp: -2, Valid: true} // 9.99
	gw := &fakeGateway{results: []*database.Result{{
		Rows: []database.Row{{
			"id":         int32(7),
			"name":       "Widget",
			"quantity":   int32(5),
			"price":      numeric,
			"created_at": now,
			"updated_at": now,
		}},
		Count: 1,
	}}}
	repo := repositories.NewPostgresProductRepository(gw)

	product, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, 5, product.Quantity)
	assert.InDelta(t, 9.99, product.Price, 0.0001)
}

func TestPostgresProductRepository_GetByID_NotFound(t *testing.T) {
	gw := &fakeGateway{results: []*database.Result{{Rows: []database.Row{}}}}
	repo := repositories.NewPostgresProductRepository(gw)

	product, err := repo.GetByID(context.Background(), 42)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestPostgresProductRepository_Create(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{results: []*database.Result{{
		Rows:  []database.Row{productRow(1, "Widget", 5, 9.99, now)},
		Count: 1,
	}}}
	repo := repositories.NewPostgresProductRepository(gw)

	product := &models.Product{Name: "Widget", Quantity: 5, Price: 9.99}
	err := repo.Create(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, now, product.CreatedAt)
	assert.Equal(t, now, product.UpdatedAt)

	// User input travels as positional binds, never inside the statement text.
	require.Len(t, gw.calls, 1)
	assert.Contains(t, gw.calls[0].sql, "$1")
	assert.Equal(t, []any{"Widget", 5, 9.99}, gw.calls[0].args)
	assert.NotContains(t, gw.calls[0].sql, "Widget")
}

func TestPostgresProductRepository_Update(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{results: []*database.Result{{
		Rows:  []database.Row{productRow(1, "Widget v2", 7, 12.5, now)},
		Count: 1,
	}}}
	repo := repositories.NewPostgresProductRepository(gw)

	product := &models.Product{ID: 1, Name: "Widget v2", Quantity: 7, Price: 12.5}
	err := repo.Update(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, "Widget v2", product.Name)
	require.Len(t, gw.calls, 1)
	assert.Equal(t, []any{"Widget v2", 7, 12.5, int64(1)}, gw.calls[0].args)
	assert.Contains(t, gw.calls[0].sql, "updated_at = NOW()")
	assert.False(t, strings.Contains(gw.calls[0].sql, "created_at ="),
		"update must not touch created_at")
}

func TestPostgresProductRepository_Update_NotFound(t *testing.T) {
	gw := &fakeGateway{results: []*database.Result{{Rows: []database.Row{}}}}
	repo := repositories.NewPostgresProductRepository(gw)

	err := repo.Update(context.Background(), &models.Product{ID: 42, Name: "X"})

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestPostgresProductRepository_Delete(t *testing.T) {
	gw := &fakeGateway{results: []*database.Result{{Count: 1}}}
	repo := repositories.NewPostgresProductRepository(gw)

	err := repo.Delete(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, gw.calls, 1)
	assert.Equal(t, []any{int64(1)}, gw.calls[0].args)
}

func TestPostgresProductRepository_Delete_NotFound(t *testing.T) {
	gw := &fakeGateway{results: []*database.Result{{Count: 0}}}
	repo := repositories.NewPostgresProductRepository(gw)

	err := repo.Delete(context.Background(), 42)

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestPostgresProductRepository_StoreErrorWrapped(t *testing.T) {
	storeErr := errors.New("execute query: connection refused")
	gw := &fakeGateway{errs: []error{storeErr}}
	repo := repositories.NewPostgresProductRepository(gw)

	_, err := repo.GetAll(context.Background())

	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, repositories.ErrProductNotFound)
}

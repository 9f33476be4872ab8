package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Result holds the rows returned by a statement and the number of rows the
// statement touched. For SELECT statements Count equals len(Rows); for
// UPDATE/DELETE without RETURNING it is the affected-row count.
type Result struct {
	Rows  []Row
	Count int
}

// Gateway executes a parameterized SQL statement against the store. Arguments
// are always bound positionally; callers never interpolate user input into the
// statement text.
type Gateway interface {
	Query(ctx context.Context, sql string, args ...any) (*Result, error)
}

// Pool is the pgxpool-backed Gateway shared by all requests. Connections are
// borrowed per query and returned when the rows are drained.
type Pool struct {
	pool *pgxpool.Pool
}

// Connect builds the connection pool and verifies it with a ping. A failure
// here is unrecoverable for the process; callers are expected to treat it as
// fatal.
func Connect(ctx context.Context, connString string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Query runs a single statement and collects every row into a Row map.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	start := time.Now()

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		log.Printf("Query error: %v (sql: %s)", err, sql)
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	collected := make([]Row, 0)
	for rows.Next() {
		m, err := pgx.RowToMap(rows)
		if err != nil {
			return nil, fmt.Errorf("collect row: %w", err)
		}
		collected = append(collected, Row(m))
	}
	if err := rows.Err(); err != nil {
		log.Printf("Query error: %v (sql: %s)", err, sql)
		return nil, fmt.Errorf("read rows: %w", err)
	}
	rows.Close()

	count := int(rows.CommandTag().RowsAffected())
	log.Printf("Executed query in %s (rows: %d)", time.Since(start), count)

	return &Result{Rows: collected, Count: count}, nil
}

// Close releases the pool. Safe to call once at shutdown.
func (p *Pool) Close() {
	p.pool.Close()
}

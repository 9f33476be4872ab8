package database

import (
	"context"
	"fmt"
	"log"
)

// Check runs connectivity and schema diagnostics against the store and logs
// what it finds. Used by the "check" subcommand.
func Check(ctx context.Context, gw Gateway) error {
	res, err := gw.Query(ctx, "SELECT NOW() AS current_time, current_database() AS database_name")
	if err != nil {
		return fmt.Errorf("database connection check: %w", err)
	}
	if len(res.Rows) > 0 {
		log.Printf("Connected to database %v (server time %v)",
			res.Rows[0]["database_name"], res.Rows[0]["current_time"])
	}

	res, err = gw.Query(ctx, productsTableExistsSQL)
	if err != nil {
		return fmt.Errorf("table existence check: %w", err)
	}
	if len(res.Rows) == 0 || res.Rows[0]["table_exists"] != true {
		log.Println("Products table does NOT exist; run the migrate subcommand first")
		return nil
	}
	log.Println("Products table exists")

	res, err = gw.Query(ctx, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_name = 'products'
		ORDER BY ordinal_position`)
	if err != nil {
		return fmt.Errorf("column layout check: %w", err)
	}
	for _, row := range res.Rows {
		log.Printf("  column %v: %v (nullable=%v, default=%v)",
			row["column_name"], row["data_type"], row["is_nullable"], row["column_default"])
	}

	res, err = gw.Query(ctx, "SELECT COUNT(*) AS total FROM products")
	if err != nil {
		return fmt.Errorf("row count check: %w", err)
	}
	if len(res.Rows) > 0 {
		log.Printf("Total products: %v", res.Rows[0]["total"])
	}

	res, err = gw.Query(ctx, "SELECT * FROM products ORDER BY id LIMIT 10")
	if err != nil {
		return fmt.Errorf("sample data check: %w", err)
	}
	for i, row := range res.Rows {
		log.Printf("  sample %d: id=%v name=%v quantity=%v price=%v",
			i+1, row["id"], row["name"], row["quantity"], row["price"])
	}

	return nil
}

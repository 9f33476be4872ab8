package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Migrate executes the statements in the migration script one by one. The
// script is idempotent: errors that only mean "this already ran" (relation
// already exists, duplicate object, drop of a missing object) are logged and
// skipped. Any other failure aborts the migration. This tolerance is a
// property of the migration script alone and is not applied anywhere else.
func Migrate(ctx context.Context, gw Gateway, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}

	statements := splitStatements(string(raw))
	log.Printf("Executing %d migration statements from %s", len(statements), path)

	for i, stmt := range statements {
		if _, err := gw.Query(ctx, stmt); err != nil {
			if isIdempotentSkip(err) {
				log.Printf("Statement %d skipped: %v", i+1, err)
				continue
			}
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}

	res, err := gw.Query(ctx, productsTableExistsSQL)
	if err != nil {
		return fmt.Errorf("verify products table: %w", err)
	}
	if len(res.Rows) == 0 || res.Rows[0]["table_exists"] != true {
		return fmt.Errorf("products table missing after migration")
	}

	return nil
}

const productsTableExistsSQL = `
	SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = 'products'
	) AS table_exists`

// splitStatements strips full-line comments and splits the script on
// semicolons. Statements in the script do not contain string literals with
// embedded semicolons, so a plain split is sufficient.
func splitStatements(script string) []string {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func isIdempotentSkip(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "does not exist")
}

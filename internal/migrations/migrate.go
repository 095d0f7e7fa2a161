// Package migrations applies the embedded SQL schema files in
// lexicographic order through goose's ledger table.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// Up runs all pending migrations. Re-running is a no-op for files already
// recorded in the ledger.
func Up(db *sql.DB) error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

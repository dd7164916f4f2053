package migrations

import (
	"context"
	"fmt"

	mysqlstore "weekly-sales-report/internal/storage/mysql"
)

// RunMySQLMigrations applies the embedded DDL one statement at a time;
// the driver runs without multiStatements.
func RunMySQLMigrations(ctx context.Context, db *mysqlstore.DB) error {
	scripts, err := loadScripts(MySQLFS, "mysql")
	if err != nil {
		return err
	}
	for _, s := range scripts {
		for _, stmt := range s.stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", s.name, err)
			}
		}
	}
	return nil
}

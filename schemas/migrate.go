package schemas

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
)

// Apply runs every embedded migration file against the database in file name
// order. Statements in one file run as a single multi-statement Exec, so the
// connection must be opened with multiStatements enabled.
func Apply(ctx context.Context, db *sqlx.DB) ([]string, error) {
	names, err := fs.Glob(Migrations, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob() > %w", err)
	}
	sort.Strings(names)

	applied := make([]string, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(Migrations, name)
		if err != nil {
			return nil, fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(data)); err != nil {
			return applied, fmt.Errorf("apply %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}

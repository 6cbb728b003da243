package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/suyash01/expensehub/internal/models"
)

func init() {
	goose.AddMigrationContext(upCreateExpense, downCreateExpense)
}

func upCreateExpense(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf("CREATE TYPE expense_status AS ENUM (%s)", enumValues(models.Statuses)),
		fmt.Sprintf("CREATE TYPE expense_category AS ENUM (%s)", enumValues(models.Categories)),
		fmt.Sprintf(`CREATE TABLE expense (
			id SERIAL PRIMARY KEY,
			description TEXT NOT NULL CHECK (description <> ''),
			amount NUMERIC(10, 2) NOT NULL CHECK (amount > 0),
			date TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id TEXT NOT NULL REFERENCES "user"(id),
			category expense_category NOT NULL,
			status expense_status NOT NULL DEFAULT %s,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`, pq.QuoteLiteral(string(models.StatusPending))),
		"CREATE INDEX expense_user_id_date_idx ON expense (user_id, date)",
		"CREATE INDEX expense_status_idx ON expense (status)",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func downCreateExpense(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS expense",
		"DROP TYPE IF EXISTS expense_category",
		"DROP TYPE IF EXISTS expense_status",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func enumValues[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pq.QuoteLiteral(string(v))
	}
	return strings.Join(quoted, ", ")
}

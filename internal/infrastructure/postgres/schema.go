package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS invoices (
		id             UUID PRIMARY KEY,
		user_id        TEXT NOT NULL,
		invoice_number TEXT NOT NULL,
		format         TEXT NOT NULL,
		recipient_name TEXT NOT NULL,
		issue_date     TEXT NOT NULL,
		currency       TEXT NOT NULL,
		net_total      NUMERIC(14,2) NOT NULL,
		tax_total      NUMERIC(14,2) NOT NULL,
		gross_total    NUMERIC(14,2) NOT NULL,
		payload        JSONB NOT NULL,
		xml            TEXT NOT NULL,
		digest         TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, invoice_number)
	)`,
	`CREATE INDEX IF NOT EXISTS invoices_user_created_idx ON invoices (user_id, created_at DESC)`,
}

// EnsureSchema creates the archive tables when they do not exist yet.
func EnsureSchema(ctx context.Context, tx *TxRunner) error {
	return tx.Run(ctx, func(q Querier) error {
		for _, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
		}
		return nil
	})
}

package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists order_journal (
			id text primary key,
			account_id text not null,
			symbol text not null,
			kind text not null,
			side text not null,
			quantity double precision not null,
			mode text not null,
			client_order_id text not null,
			order_id text not null default '',
			accepted boolean not null,
			error text not null default '',
			created_at timestamptz not null
		);`,
		`create index if not exists order_journal_created_at_idx on order_journal(created_at desc);`,
		`create index if not exists order_journal_account_symbol_idx on order_journal(account_id, symbol, created_at desc);`,
		`create unique index if not exists order_journal_client_order_idx on order_journal(account_id, client_order_id);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

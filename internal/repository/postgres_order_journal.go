package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"signal-gateway/internal/domain"
)

// PostgresOrderJournal stores journal entries in Postgres
type PostgresOrderJournal struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderJournal(pool *pgxpool.Pool) *PostgresOrderJournal {
	return &PostgresOrderJournal{pool: pool}
}

func (r *PostgresOrderJournal) Record(ctx context.Context, entry *domain.JournalEntry) error {
	if entry == nil {
		return errors.New("nil journal entry")
	}

	_, err := r.pool.Exec(ctx, `
		insert into order_journal(
			id, account_id, symbol, kind, side, quantity,
			mode, client_order_id, order_id, accepted, error, created_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		entry.ID,
		entry.AccountID,
		entry.Symbol,
		string(entry.Kind),
		string(entry.Side),
		entry.Quantity,
		string(entry.Mode),
		entry.ClientOrderID,
		entry.OrderID,
		entry.Accepted,
		entry.Error,
		entry.CreatedAt,
	)
	return err
}

func (r *PostgresOrderJournal) Recent(ctx context.Context, limit int) ([]*domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		select id, account_id, symbol, kind, side, quantity,
			mode, client_order_id, order_id, accepted, error, created_at
		from order_journal
		order by created_at desc
		limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.JournalEntry, 0, limit)
	for rows.Next() {
		var entry domain.JournalEntry
		var kind, side, mode string
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Symbol,
			&kind,
			&side,
			&entry.Quantity,
			&mode,
			&entry.ClientOrderID,
			&entry.OrderID,
			&entry.Accepted,
			&entry.Error,
			&entry.CreatedAt,
		); err != nil {
			continue
		}
		entry.Kind = domain.ActionKind(kind)
		entry.Side = domain.Side(side)
		entry.Mode = domain.Mode(mode)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

package persist

import (
	"context"
	"fmt"
	"time"
)

// Journal entry kinds.
const (
	JournalSpawned  = "spawned"
	JournalSpotted  = "spotted"
	JournalBattle   = "battle"
	JournalResolved = "resolved"
	JournalExpired  = "expired"
	JournalUfoLost  = "ufo_lost"
)

// JournalEntry is one campaign lifecycle record.
type JournalEntry struct {
	Kind      string
	SiteID    int
	SiteType  string
	CraftID   int
	GameTime  int64
	Detail    string
	CreatedAt time.Time // set by the database
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Write atomically stores a batch of entries in a single transaction.
// On failure nothing is written and the caller keeps the batch.
func (r *JournalRepo) Write(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO campaign_journal (kind, site_id, site_type, craft_id, game_time, detail)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.Kind, e.SiteID, e.SiteType, e.CraftID, e.GameTime, e.Detail,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Recent returns the newest entries, newest first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, site_id, site_type, craft_id, game_time, detail, created_at
		 FROM campaign_journal ORDER BY id DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.Kind, &e.SiteID, &e.SiteType, &e.CraftID, &e.GameTime, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

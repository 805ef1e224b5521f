package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrNoSave is returned when a slot holds no save.
	ErrNoSave = errors.New("no save in slot")
	// ErrChecksum is returned when stored save bytes do not match their digest.
	ErrChecksum = errors.New("save checksum mismatch")
)

// SaveRow is one stored save file. Data is nil in listings.
type SaveRow struct {
	ID        int64
	Slot      string
	GameTime  int64 // campaign seconds at the time of the save
	Data      []byte
	Checksum  []byte
	CreatedAt time.Time
}

// Checksum returns the BLAKE2b-256 digest stored next to each save.
func Checksum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Verify checks the row's data against its stored digest.
func (r *SaveRow) Verify() error {
	if !bytes.Equal(Checksum(r.Data), r.Checksum) {
		return fmt.Errorf("%w: save %d in slot %q", ErrChecksum, r.ID, r.Slot)
	}
	return nil
}

type SaveRepo struct {
	db *DB
}

func NewSaveRepo(db *DB) *SaveRepo {
	return &SaveRepo{db: db}
}

// Save stores a new save in slot and returns its id. Older saves in the
// slot are kept until Prune.
func (r *SaveRepo) Save(ctx context.Context, slot string, gameTime int64, data []byte) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO saves (slot, game_time, data, checksum)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		slot, gameTime, data, Checksum(data),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert save: %w", err)
	}
	return id, nil
}

// LoadLatest returns the newest save in slot with its checksum verified.
func (r *SaveRepo) LoadLatest(ctx context.Context, slot string) (*SaveRow, error) {
	row := &SaveRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, slot, game_time, data, checksum, created_at
		 FROM saves WHERE slot = $1 ORDER BY id DESC LIMIT 1`, slot,
	).Scan(&row.ID, &row.Slot, &row.GameTime, &row.Data, &row.Checksum, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNoSave, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}
	if err := row.Verify(); err != nil {
		return nil, err
	}
	return row, nil
}

// List returns the saves in slot, newest first, without their data.
func (r *SaveRepo) List(ctx context.Context, slot string) ([]SaveRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, slot, game_time, checksum, created_at
		 FROM saves WHERE slot = $1 ORDER BY id DESC`, slot,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveRow
	for rows.Next() {
		var s SaveRow
		if err := rows.Scan(&s.ID, &s.Slot, &s.GameTime, &s.Checksum, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep saves in slot. keep <= 0 is a no-op.
func (r *SaveRepo) Prune(ctx context.Context, slot string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM saves
		 WHERE slot = $1 AND id NOT IN (
		     SELECT id FROM saves WHERE slot = $1 ORDER BY id DESC LIMIT $2)`,
		slot, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune saves: %w", err)
	}
	return tag.RowsAffected(), nil
}

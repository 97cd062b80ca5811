// Package sqlitestore persists entitlement keys in a device-local sqlite
// file through bun. One row per key; Set is an upsert, so the single-key
// read-after-write contract holds without any transaction across keys.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Row maps the wardrobe_kv table (see migrations/sqlite).
type Row struct {
	bun.BaseModel `bun:"table:wardrobe_kv"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// KV implements entitlements.KV on a bun database handle.
type KV struct {
	db *bun.DB
}

// NewKV wraps an existing bun handle. The wardrobe_kv table must exist;
// run the migrations/sqlite registry first.
func NewKV(db *bun.DB) *KV {
	return &KV{db: db}
}

// OpenDB opens (creating if needed) the sqlite file at path and returns a
// bun handle suitable for NewKV.
func OpenDB(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite handles one writer; avoid pool contention on a local file.
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var row Row
	err := s.db.NewSelect().Model(&row).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&Row{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

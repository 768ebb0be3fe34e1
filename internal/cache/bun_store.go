package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

var errNoDatabase = errors.New("cache: bun store requires a database")

// BunStore persists image resolutions in SQLite through bun.
type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ interfaces.ImageCacheAdmin = (*BunStore)(nil)

// NewBunStore wraps an existing database. Call EnsureSchema before use.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, now: time.Now}
}

// OpenBunStore opens (or creates) the SQLite cache file at path.
func OpenBunStore(ctx context.Context, path string) (*BunStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
		}
	}
	sqldb, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	// SQLite allows a single writer.
	sqldb.SetMaxOpenConns(1)

	store := NewBunStore(bun.NewDB(sqldb, sqlitedialect.New()))
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// WithClock overrides the timestamp source for created_at.
func (s *BunStore) WithClock(now func() time.Time) *BunStore {
	if now != nil {
		s.now = now
	}
	return s
}

// EnsureSchema creates the cache table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errNoDatabase
	}
	if _, err := s.db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("cache: create table: %w", err)
	}
	return nil
}

func (s *BunStore) Get(ctx context.Context, key string) (interfaces.ImageResolution, bool, error) {
	if s.db == nil {
		return interfaces.ImageResolution{}, false, errNoDatabase
	}
	var model entryModel
	if err := s.db.NewSelect().Model(&model).Where("cache_key = ?", key).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return interfaces.ImageResolution{}, false, nil
		}
		return interfaces.ImageResolution{}, false, err
	}
	value, err := decode(model.Value)
	if err != nil {
		return interfaces.ImageResolution{}, false, err
	}
	return value, true, nil
}

func (s *BunStore) Set(ctx context.Context, key string, value interfaces.ImageResolution) error {
	if s.db == nil {
		return errNoDatabase
	}
	payload, err := encode(value)
	if err != nil {
		return err
	}
	model := entryModel{
		Key:       key,
		Value:     payload,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.NewInsert().
		Model(&model).
		On("CONFLICT (cache_key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	return err
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	if s.db == nil {
		return errNoDatabase
	}
	_, err := s.db.NewDelete().Model((*entryModel)(nil)).Where("cache_key = ?", key).Exec(ctx)
	return err
}

func (s *BunStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return errNoDatabase
	}
	_, err := s.db.NewDelete().Model((*entryModel)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (s *BunStore) Keys(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	var keys []string
	if err := s.db.NewSelect().Model((*entryModel)(nil)).Column("cache_key").Order("cache_key ASC").Scan(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close releases the underlying database.
func (s *BunStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type entryModel struct {
	bun.BaseModel `bun:"table:image_cache"`

	Key       string    `bun:"cache_key,pk"`
	Value     string    `bun:"value,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

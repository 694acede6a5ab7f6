package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/migrations"
	"github.com/micropass/micropass-go/models"
)

type sqliteCache struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteCache opens (or creates) the cache database at path and applies
// pending migrations. An empty path selects an in-memory database.
func NewSQLiteCache(path string, log *logger.Logger) (CipherCache, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache database: %w", err)
	}

	return &sqliteCache{db: db, log: log}, nil
}

// newSQLiteCacheWithDB wires an existing handle, used by tests with sqlmock.
func newSQLiteCacheWithDB(db *sql.DB, log *logger.Logger) CipherCache {
	return &sqliteCache{db: db, log: log}
}

func (s *sqliteCache) Upsert(ctx context.Context, cipher models.EncryptedCipher) error {
	query, args, err := sq.Insert("ciphers").
		Columns("id", "dir", "data", "created", "updated").
		Values(cipher.ID, cipher.Dir, cipher.Data, cipher.Created, cipher.Updated).
		Suffix("ON CONFLICT(id) DO UPDATE SET dir = excluded.dir, data = excluded.data, created = excluded.created, updated = excluded.updated").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).Str("id", cipher.ID).Msg("cache upsert failed")
		return fmt.Errorf("upsert cipher %s: %w", cipher.ID, err)
	}
	return nil
}

func (s *sqliteCache) Get(ctx context.Context, id string) (models.EncryptedCipher, error) {
	query, args, err := sq.Select("id", "dir", "data", "created", "updated").
		From("ciphers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.EncryptedCipher{}, fmt.Errorf("build get query: %w", err)
	}

	var out models.EncryptedCipher
	row := s.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&out.ID, &out.Dir, &out.Data, &out.Created, &out.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EncryptedCipher{}, ErrCacheMiss
		}
		return models.EncryptedCipher{}, fmt.Errorf("scan cipher %s: %w", id, err)
	}
	return out, nil
}

func (s *sqliteCache) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("ciphers").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).Str("id", id).Msg("cache delete failed")
		return fmt.Errorf("delete cipher %s: %w", id, err)
	}
	return nil
}

func (s *sqliteCache) List(ctx context.Context) ([]models.EncryptedCipher, error) {
	query, args, err := sq.Select("id", "dir", "data", "created", "updated").
		From("ciphers").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ciphers: %w", err)
	}
	defer rows.Close()

	var out []models.EncryptedCipher
	for rows.Next() {
		var c models.EncryptedCipher
		if err = rows.Scan(&c.ID, &c.Dir, &c.Data, &c.Created, &c.Updated); err != nil {
			return nil, fmt.Errorf("scan cipher row: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cipher rows: %w", err)
	}
	return out, nil
}

func (s *sqliteCache) Checkpoint(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("last_sync").
		From("sync_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build checkpoint query: %w", err)
	}

	var lastSync int64
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&lastSync); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("scan checkpoint: %w", err)
	}
	return lastSync, nil
}

func (s *sqliteCache) SetCheckpoint(ctx context.Context, lastSync int64) error {
	query, args, err := sq.Insert("sync_state").
		Columns("id", "last_sync").
		Values(1, lastSync).
		Suffix("ON CONFLICT(id) DO UPDATE SET last_sync = excluded.last_sync").
		ToSql()
	if err != nil {
		return fmt.Errorf("build checkpoint upsert: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store checkpoint: %w", err)
	}
	return nil
}

func (s *sqliteCache) Close() error {
	return s.db.Close()
}

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/db"
	"grid-dispatch-service/internal/platform/obs"
	"strings"
)

// SQLPathCache is a SQL-backed cache for search results, usable with
// sqlite or postgres.
type SQLPathCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLPathCache(conn *sql.DB, dialect db.Dialect) *SQLPathCache {
	return &SQLPathCache{DB: conn, Dialect: dialect}
}

func (s *SQLPathCache) Get(ctx context.Context, key string) (_ domain.Path, _ bool, err error) {
	defer obs.Time(ctx, "path.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.Path{}, false, errors.New("path cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return domain.Path{}, false, errors.New("get path cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT path_json
	FROM path_cache
	WHERE cache_key = ?;
	`)

	var raw string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Path{}, false, nil
	}
	if err != nil {
		return domain.Path{}, false, fmt.Errorf("get path cache: query path_cache table: %w", err)
	}

	p, err := decodePath([]byte(raw))
	if err != nil {
		return domain.Path{}, false, fmt.Errorf("get path cache: key=%q: %w", key, err)
	}
	return p, true, nil
}

func (s *SQLPathCache) Put(ctx context.Context, key string, p domain.Path) error {
	if s.DB == nil {
		return errors.New("path cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert path cache: key must not be empty")
	}

	b, err := encodePath(p)
	if err != nil {
		return fmt.Errorf("insert path cache: key=%q: %w", key, err)
	}

	q := s.Dialect.Rebind(`
	INSERT INTO path_cache (cache_key, path_json)
	VALUES (?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET path_json = EXCLUDED.path_json;
	`)
	if _, err := s.DB.ExecContext(ctx, q, key, string(b)); err != nil {
		return fmt.Errorf("insert path cache key=%q: %w", key, err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// geometryCache implements driven.GeometryCache.
// stored_at and last_used are nanosecond timestamps; the oldest rows beyond maxEntries are evicted on Put.
type geometryCache struct {
	store      *Store
	maxEntries int
	ttl        time.Duration
}

var _ driven.GeometryCache = (*geometryCache)(nil)

// Get returns a cached result, dropping it when expired.
func (c *geometryCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error) {
	var data string
	var storedAt int64
	err := c.store.db.QueryRowContext(ctx,
		`SELECT result, stored_at FROM geometry_cache WHERE cache_key = ?`, key).Scan(&data, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying geometry cache: %w", err)
	}

	now := c.store.now()
	if c.ttl > 0 && now.Sub(time.Unix(0, storedAt)) > c.ttl {
		return nil, false, c.Delete(ctx, key)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false, fmt.Errorf("decoding cached result %s: %w", key, err)
	}
	if _, err := c.store.db.ExecContext(ctx,
		`UPDATE geometry_cache SET last_used = ? WHERE cache_key = ?`, now.UnixNano(), key); err != nil {
		return nil, false, fmt.Errorf("touching geometry cache: %w", err)
	}
	return &result, true, nil
}

// Put stores a result and evicts the least recently used rows beyond capacity.
func (c *geometryCache) Put(ctx context.Context, key string, result *domain.AnalysisResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	now := c.store.now()
	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO geometry_cache (cache_key, result, stored_at, last_used)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			result = excluded.result,
			stored_at = excluded.stored_at,
			last_used = excluded.last_used
	`, key, string(data), now.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("saving geometry cache %s: %w", key, err)
	}

	if c.maxEntries > 0 {
		_, err = c.store.db.ExecContext(ctx, `
			DELETE FROM geometry_cache WHERE cache_key NOT IN (
				SELECT cache_key FROM geometry_cache ORDER BY last_used DESC LIMIT ?
			)
		`, c.maxEntries)
		if err != nil {
			return fmt.Errorf("evicting geometry cache: %w", err)
		}
	}
	return nil
}

// Delete removes one entry.
func (c *geometryCache) Delete(ctx context.Context, key string) error {
	if _, err := c.store.db.ExecContext(ctx, `DELETE FROM geometry_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("deleting geometry cache %s: %w", key, err)
	}
	return nil
}

// Purge removes every entry.
func (c *geometryCache) Purge(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, `DELETE FROM geometry_cache`); err != nil {
		return fmt.Errorf("purging geometry cache: %w", err)
	}
	return nil
}

// Len returns the number of live entries.
func (c *geometryCache) Len(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM geometry_cache`
	args := []interface{}{}
	if c.ttl > 0 {
		query += ` WHERE stored_at >= ?`
		args = append(args, c.store.now().Add(-c.ttl).UnixNano())
	}
	var n int
	if err := c.store.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting geometry cache: %w", err)
	}
	return n, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"adsfront/internal/cache"
)

// CacheRepository keeps listing cache entries in Postgres so several gateway
// instances share one cache and one view of tag generations.
type CacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ cache.Store = (*CacheRepository)(nil)

func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db, now: time.Now}
}

func (r *CacheRepository) Get(ctx context.Context, key string) (*cache.Entry, bool, error) {
	query := `
		SELECT tag, generation, payload, stored_at, expires_at
		FROM ads_cache
		WHERE key = $1
	`

	var e cache.Entry
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, key).Scan(&e.Tag, &e.Generation, &e.Payload, &e.StoredAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	if expiresAt.Valid {
		e.ExpiresAt = expiresAt.Time
	}
	if e.Expired(r.now()) {
		return nil, false, nil
	}
	return &e, true, nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, e *cache.Entry) error {
	query := `
		INSERT INTO ads_cache (key, tag, generation, payload, stored_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			tag = EXCLUDED.tag,
			generation = EXCLUDED.generation,
			payload = EXCLUDED.payload,
			stored_at = EXCLUDED.stored_at,
			expires_at = EXCLUDED.expires_at
	`

	var expiresAt sql.NullTime
	if !e.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: e.ExpiresAt, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, key, e.Tag, e.Generation, e.Payload, e.StoredAt, expiresAt); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ads_cache WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (r *CacheRepository) Generation(ctx context.Context, tag string) (string, error) {
	var gen string
	err := r.db.QueryRowContext(ctx, `SELECT generation FROM ads_cache_tags WHERE tag = $1`, tag).Scan(&gen)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to read tag generation: %w", err)
	}
	return gen, nil
}

// Bump moves tag to a new generation and purges its entries in one
// transaction.
func (r *CacheRepository) Bump(ctx context.Context, tag string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to bump tag: %w", err)
	}
	defer tx.Rollback()

	var gen string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO ads_cache_tags (tag, generation, bumped_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (tag) DO UPDATE SET generation = EXCLUDED.generation, bumped_at = EXCLUDED.bumped_at
		RETURNING generation
	`, tag, uuid.NewString()).Scan(&gen)
	if err != nil {
		return "", fmt.Errorf("failed to bump tag: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ads_cache WHERE tag = $1`, tag); err != nil {
		return "", fmt.Errorf("failed to purge tag entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to bump tag: %w", err)
	}
	return gen, nil
}

// PurgeExpired removes entries past their expiry and reports how many went.
func (r *CacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ads_cache WHERE expires_at IS NOT NULL AND expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return result.RowsAffected()
}

// Close is a no-op; the owner of the *sql.DB closes it.
func (r *CacheRepository) Close() error {
	return nil
}

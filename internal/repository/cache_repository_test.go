package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"

	"adsfront/internal/cache"
)

func newMock(t *testing.T) (*CacheRepository, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	repo := NewCacheRepository(db)
	repo.now = func() time.Time { return now }
	return repo, mock, now
}

func TestCacheRepositoryGetHit(t *testing.T) {
	repo, mock, now := newMock(t)

	mock.ExpectQuery(`SELECT tag, generation, payload, stored_at, expires_at\s+FROM ads_cache\s+WHERE key = \$1`).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"tag", "generation", "payload", "stored_at", "expires_at"}).
			AddRow("Ads/LIST", "g1", []byte(`[]`), now.Add(-time.Minute), now.Add(time.Minute)))

	e, ok, err := repo.Get(context.Background(), "k1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if e.Generation != "g1" || string(e.Payload) != "[]" {
		t.Fatalf("unexpected entry %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCacheRepositoryGetExpired(t *testing.T) {
	repo, mock, now := newMock(t)

	mock.ExpectQuery(`SELECT tag, generation, payload`).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"tag", "generation", "payload", "stored_at", "expires_at"}).
			AddRow("Ads/LIST", "g1", []byte(`[]`), now.Add(-time.Hour), now.Add(-time.Minute)))

	_, ok, err := repo.Get(context.Background(), "k1")
	if err != nil || ok {
		t.Fatalf("expected expired miss, got ok=%v err=%v", ok, err)
	}
}

func TestCacheRepositoryGetMiss(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT tag, generation, payload`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, ok, err := repo.Get(context.Background(), "nope")
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestCacheRepositorySetUpserts(t *testing.T) {
	repo, mock, now := newMock(t)

	mock.ExpectExec(`INSERT INTO ads_cache \(key, tag, generation, payload, stored_at, expires_at\)`).
		WithArgs("k1", "Ads/LIST", "g1", []byte(`[1]`), now, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Set(context.Background(), "k1", &cache.Entry{
		Tag:        "Ads/LIST",
		Generation: "g1",
		Payload:    []byte(`[1]`),
		StoredAt:   now,
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCacheRepositoryGenerationUnknownTag(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT generation FROM ads_cache_tags WHERE tag = \$1`).
		WithArgs("Ads/LIST").
		WillReturnRows(sqlmock.NewRows([]string{"generation"}))

	gen, err := repo.Generation(context.Background(), "Ads/LIST")
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if gen != "" {
		t.Fatalf("expected empty generation, got %q", gen)
	}
}

func TestCacheRepositoryBump(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ads_cache_tags`).
		WithArgs("Ads/LIST", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"generation"}).AddRow("g2"))
	mock.ExpectExec(`DELETE FROM ads_cache WHERE tag = \$1`).
		WithArgs("Ads/LIST").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	gen, err := repo.Bump(context.Background(), "Ads/LIST")
	if err != nil {
		t.Fatalf("Bump: %v", err)
	}
	if gen != "g2" {
		t.Fatalf("expected g2, got %q", gen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCacheRepositoryBumpRollsBack(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO ads_cache_tags`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	if _, err := repo.Bump(context.Background(), "Ads/LIST"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCacheRepositoryPurgeExpired(t *testing.T) {
	repo, mock, now := newMock(t)

	mock.ExpectExec(`DELETE FROM ads_cache WHERE expires_at IS NOT NULL AND expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged, got %d", n)
	}
}

func TestCacheRepositoryWorksWithCache(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT generation FROM ads_cache_tags`).
		WithArgs("Ads/LIST").
		WillReturnRows(sqlmock.NewRows([]string{"generation"}).AddRow("g1"))
	mock.ExpectQuery(`SELECT tag, generation, payload`).
		WithArgs("k").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO ads_cache`).
		WithArgs("k", "Ads/LIST", "g1", []byte("fresh"), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := cache.New(repo, time.Minute, zerolog.Nop())
	v, _, err := c.Fetch(context.Background(), "k", "Ads/LIST", func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(v) != "fresh" {
		t.Fatalf("unexpected payload %q", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

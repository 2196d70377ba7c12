package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"

	"adsfront/internal/metrics"
	"adsfront/internal/models"
)

type stubAds struct {
	listed int
}

func (s *stubAds) ListAds(ctx context.Context) ([]models.Ad, error) {
	s.listed++
	return []models.Ad{{ID: 1, Title: "Bike"}}, nil
}
func (s *stubAds) CreateAd(ctx context.Context, in models.CreateAdInput) (*models.Ad, error) {
	return &models.Ad{ID: 2}, nil
}
func (s *stubAds) DeleteAd(ctx context.Context, in models.DeleteAdInput) error { return nil }
func (s *stubAds) UpdateAd(ctx context.Context, in models.UpdateAdInput) (*models.Ad, error) {
	return &models.Ad{ID: in.ID}, nil
}

type healthResp struct {
	Status string `json:"status"`
	DB     struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	} `json:"db"`
}

func newRouter(ads *stubAds, db *sql.DB) http.Handler {
	return SetupRoutes(Deps{
		Ads:            ads,
		DB:             db,
		Metrics:        metrics.New(),
		AllowedOrigins: []string{"*"},
		Logger:         zerolog.Nop(),
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRootReturnsJSON(t *testing.T) {
	w := get(newRouter(&stubAds{}, nil), "/")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("expected message, got %v", body)
	}
}

func TestHealthWithoutDB(t *testing.T) {
	w := get(newRouter(&stubAds{}, nil), "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp healthResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("expected ok, got %+v", resp)
	}
}

func TestHealthDBOK(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()

	w := get(newRouter(&stubAds{}, db), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp healthResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.DB.Status != "ok" {
		t.Fatalf("expected db ok, got %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestHealthDBDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	w := get(newRouter(&stubAds{}, db), "/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d (%s)", w.Code, w.Body.String())
	}
	var resp healthResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.DB.Status != "down" {
		t.Fatalf("expected db down, got %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListAdsRoute(t *testing.T) {
	ads := &stubAds{}
	w := get(newRouter(ads, nil), "/api/v1/ads")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if ads.listed != 1 {
		t.Fatalf("expected one list call, got %d", ads.listed)
	}
}

func TestMutationsRequireAuthorization(t *testing.T) {
	h := newRouter(&stubAds{}, nil)
	cases := []struct{ method, target string }{
		{http.MethodPost, "/api/v1/ads"},
		{http.MethodPatch, "/api/v1/ads/1"},
		{http.MethodDelete, "/api/v1/ads/1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.target, w.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := get(newRouter(&stubAds{}, nil), "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("expected go collector output")
	}
}

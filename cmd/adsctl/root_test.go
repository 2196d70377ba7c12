package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method, path, auth, body string
}

type fakeBackend struct {
	mu   sync.Mutex
	got  []seen
	resp string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.got = append(f.got, seen{r.Method, r.URL.RequestURI(), r.Header.Get("Authorization"), string(body)})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, f.resp)
}

func run(t *testing.T, f *fakeBackend, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--base-url", srv.URL, "--token-type", "Bearer", "--access-token", "tok", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	f := &fakeBackend{resp: `[{"id":3,"title":"Desk","description":"Pine","price":40}]`}
	out, err := run(t, f, "list")
	require.NoError(t, err)

	require.Len(t, f.got, 1)
	assert.Equal(t, "/ads?sorting=new", f.got[0].path)
	assert.Empty(t, f.got[0].auth)
	assert.Contains(t, out, `"title": "Desk"`)
}

func TestCreateCommand(t *testing.T) {
	f := &fakeBackend{resp: `{"id":9,"title":"Bike","description":"Red","price":100}`}
	_, err := run(t, f, "create", "--title", "Bike", "--description", "Red", "--price", "100")
	require.NoError(t, err)

	require.Len(t, f.got, 1)
	assert.Equal(t, http.MethodPost, f.got[0].method)
	assert.Equal(t, "/adstext", f.got[0].path)
	assert.Equal(t, "Bearer tok", f.got[0].auth)
	assert.Equal(t, `{"title":"Bike","description":"Red","price":100}`, f.got[0].body)
}

func TestUpdateCommandClearPrice(t *testing.T) {
	f := &fakeBackend{resp: `{"id":4,"title":"Chair","description":"Oak","price":null}`}
	_, err := run(t, f, "update", "4", "--title", "Chair", "--description", "Oak", "--clear-price")
	require.NoError(t, err)

	require.Len(t, f.got, 1)
	assert.Equal(t, http.MethodPatch, f.got[0].method)
	assert.Equal(t, "/ads/4", f.got[0].path)
	assert.Equal(t, `{"title":"Chair","description":"Oak","price":null}`, f.got[0].body)
}

func TestUpdateCommandNeedsPriceChoice(t *testing.T) {
	f := &fakeBackend{}
	_, err := run(t, f, "update", "4", "--title", "Chair", "--description", "Oak")
	require.Error(t, err)

	_, err = run(t, f, "update", "4", "--title", "Chair", "--description", "Oak", "--price", "3", "--clear-price")
	require.Error(t, err)
	assert.Empty(t, f.got)
}

func TestUpdateCommandRejectsNonIntegerID(t *testing.T) {
	f := &fakeBackend{}
	_, err := run(t, f, "update", "x1", "--title", "a", "--description", "b", "--price", "1")
	require.Error(t, err)
	assert.Empty(t, f.got)
}

func TestDeleteCommand(t *testing.T) {
	f := &fakeBackend{resp: `{}`}
	out, err := run(t, f, "delete", "17")
	require.NoError(t, err)

	require.Len(t, f.got, 1)
	assert.Equal(t, http.MethodDelete, f.got[0].method)
	assert.Equal(t, "/ads/17", f.got[0].path)
	assert.Empty(t, f.got[0].body)
	assert.Equal(t, "deleted 17\n", out)
}

func TestConfigFileSuppliesBackend(t *testing.T) {
	f := &fakeBackend{resp: `[]`}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "adsctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: "+srv.URL+"\nlog_level: error\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--config", path, "list"})
	require.NoError(t, cmd.Execute())
	assert.Len(t, f.got, 1)
}

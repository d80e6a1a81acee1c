package devserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/grocery/internal/model"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, seed ...model.Item) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Handler(NewMemory(seed...), "/items", quiet))
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestListReturnsWireFormat(t *testing.T) {
	srv := newTestServer(t, model.Item{ID: 1, Label: "Eggs"})

	code, body := send(t, http.MethodGet, srv.URL+"/items", "")

	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"id":1,"checked":false,"item":"Eggs"}]`, body)
}

func TestListEmptyIsArray(t *testing.T) {
	srv := newTestServer(t)
	_, body := send(t, http.MethodGet, srv.URL+"/items", "")
	assert.JSONEq(t, `[]`, body)
}

func TestCreatePatchDelete(t *testing.T) {
	srv := newTestServer(t)

	code, body := send(t, http.MethodPost, srv.URL+"/items", `{"id":1,"checked":false,"item":"Bread"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"id":1,"checked":false,"item":"Bread"}`, body)

	code, body = send(t, http.MethodPatch, srv.URL+"/items/1", `{"checked":true}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":1,"checked":true,"item":"Bread"}`, body)

	code, _ = send(t, http.MethodDelete, srv.URL+"/items/1", "")
	assert.Equal(t, http.StatusOK, code)

	_, body = send(t, http.MethodGet, srv.URL+"/items", "")
	assert.JSONEq(t, `[]`, body)
}

func TestCreateRejects(t *testing.T) {
	srv := newTestServer(t, model.Item{ID: 1, Label: "Eggs"})

	code, _ := send(t, http.MethodPost, srv.URL+"/items", `{"id":1,"checked":false,"item":"Again"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = send(t, http.MethodPost, srv.URL+"/items", `{"id":2,"item":"  "}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = send(t, http.MethodPost, srv.URL+"/items", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPatchAndDeleteMissing(t *testing.T) {
	srv := newTestServer(t)

	code, _ := send(t, http.MethodPatch, srv.URL+"/items/5", `{"checked":true}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = send(t, http.MethodDelete, srv.URL+"/items/5", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = send(t, http.MethodDelete, srv.URL+"/items/abc", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPatchRequiresChecked(t *testing.T) {
	srv := newTestServer(t, model.Item{ID: 1, Label: "Eggs"})
	code, _ := send(t, http.MethodPatch, srv.URL+"/items/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	send(t, http.MethodGet, srv.URL+"/items", "")

	code, body := send(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "grocery_devserver_requests_total")
}

func TestRepositories(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository { return NewMemory() },
		"json":   func(t *testing.T) Repository { return NewJSONFile(filepath.Join(dir, "db.json")) },
		"sqlite": func(t *testing.T) Repository {
			r, err := OpenSQLite(filepath.Join(dir, "grocery.sqlite3"))
			require.NoError(t, err)
			return r
		},
	}
	for name, open := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)
			defer repo.Close()

			items, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, items)

			require.NoError(t, repo.Create(ctx, model.Item{ID: 3, Label: "Milk"}))
			require.NoError(t, repo.Create(ctx, model.Item{ID: 1, Label: "Eggs"}))
			assert.ErrorIs(t, repo.Create(ctx, model.Item{ID: 3, Label: "dup"}), ErrConflict)

			it, err := repo.SetChecked(ctx, 1, true)
			require.NoError(t, err)
			assert.Equal(t, model.Item{ID: 1, Checked: true, Label: "Eggs"}, it)
			_, err = repo.SetChecked(ctx, 99, true)
			assert.ErrorIs(t, err, ErrNotFound)

			items, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []model.Item{{ID: 3, Label: "Milk"}, {ID: 1, Checked: true, Label: "Eggs"}}, items)

			require.NoError(t, repo.Delete(ctx, 3))
			assert.ErrorIs(t, repo.Delete(ctx, 3), ErrNotFound)

			items, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []model.Item{{ID: 1, Checked: true, Label: "Eggs"}}, items)
		})
	}
}

func TestJSONFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	repo := NewJSONFile(path)
	require.NoError(t, repo.Create(context.Background(), model.Item{ID: 1, Label: "Eggs"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":1,"checked":false,"item":"Eggs"}]}`, string(b))
}

func TestOpen(t *testing.T) {
	r, err := Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, r)

	r, err = Open("json", filepath.Join(t.TempDir(), "x.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, r)

	_, err = Open("postgres", "")
	assert.Error(t, err)
}

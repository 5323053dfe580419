package suppliers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(items ...Supplier) (http.Handler, *memRepo) {
	svc, repo := newTestService(items...)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/suppliers", h.MountRoutes)
	return r, repo
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreateAndGet(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, http.MethodPost, "/suppliers", `{"name":"Casa do Bloco","phone":"123","categories":["blocks"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created Supplier
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)

	rr = do(router, http.MethodGet, "/suppliers/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"messaging_handle":"123"`)
}

func TestHandlerUpdateRejectsImmutableFields(t *testing.T) {
	router, repo := newTestRouter(Supplier{ID: 1, Name: "a", Active: true, RegisteredOn: "2023-01-01"})

	for _, body := range []string{`{"id": 5}`, `{"registered_on": "2024-01-01"}`, `{"nickname": "x"}`, `{"name": 3}`} {
		rr := do(router, http.MethodPut, "/suppliers/1", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
	assert.Zero(t, repo.saves)

	rr := do(router, http.MethodPut, "/suppliers/1", `{"phone":"555"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "555", repo.items[0].Phone)
}

func TestHandlerListFilters(t *testing.T) {
	router, _ := newTestRouter(
		Supplier{ID: 1, Name: "a", Active: true, Categories: []string{"blocks"}},
		Supplier{ID: 2, Name: "b", Active: false, Categories: []string{"blocks"}},
		Supplier{ID: 3, Name: "c", Active: true, Categories: []string{"insulation"}},
	)

	count := func(target string) int {
		rr := do(router, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rr.Code, target)
		var list []Supplier
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		return len(list)
	}
	assert.Equal(t, 2, count("/suppliers"))
	assert.Equal(t, 3, count("/suppliers?activeOnly=false"))
	assert.Equal(t, 1, count("/suppliers?category=blocks"))

	rr := do(router, http.MethodGet, "/suppliers?activeOnly=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerDeactivate(t *testing.T) {
	router, repo := newTestRouter(Supplier{ID: 1, Name: "a", Active: true})

	rr := do(router, http.MethodDelete, "/suppliers/1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, repo.items[0].Active)

	rr = do(router, http.MethodDelete, "/suppliers/9", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(router, http.MethodGet, "/suppliers/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/blueprint"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listYAML = `
name: list
context:
  title: Things
template:
  - element: h2
    children:
      - text: "{{title}}"
  - element: ul
    children:
      - each: item
        children:
          - element: li
            children:
              - text: "{{item}}"
`

func newTestServer(t *testing.T, opts ...Option) (http.Handler, *prometheus.Registry) {
	t.Helper()
	bp, err := blueprint.Parse([]byte(listYAML))
	require.NoError(t, err)
	prog, err := blueprint.Compile(bp)
	require.NoError(t, err)
	lib := blueprint.NewLibrary()
	require.NoError(t, lib.Add(prog))

	reg := prometheus.NewRegistry()
	eng, err := arbor.New(arbor.WithLibrary(lib), arbor.WithMetrics(observability.NewMetrics(reg)))
	require.NoError(t, err)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithGatherer(reg), WithLogger(quiet)}, opts...)
	return NewHandler(eng, opts...), reg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRenderView(t *testing.T) {
	h, _ := newTestServer(t)

	w := get(t, h, "/views/list?item=a&item=b&title=Mine")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h2>Mine</h2><ul><li>a</li><li>b</li></ul>", w.Body.String())

	// A single value is not a list.
	w = get(t, h, "/views/list?item=solo")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not a list")
}

func TestRenderView_JSON(t *testing.T) {
	h, _ := newTestServer(t)

	type response struct {
		Name  string       `json:"name"`
		HTML  string       `json:"html"`
		Stats domain.Stats `json:"stats"`
	}
	fetch := func() response {
		t.Helper()
		w := get(t, h, "/views/list?format=json")
		require.Equal(t, http.StatusOK, w.Code)
		var body response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		return body
	}

	first := fetch()
	assert.Equal(t, "list", first.Name)
	assert.Equal(t, "<h2>Things</h2><ul></ul>", first.HTML)
	assert.Equal(t, int64(1), first.Stats.RendererCreate)
	assert.Zero(t, first.Stats.RendererDestroy, "teardown happens after the response is built")

	// Counters describe one render, not the lifetime of the engine.
	second := fetch()
	assert.Equal(t, first.Stats, second.Stats)
}

func TestRenderView_Unknown(t *testing.T) {
	h, _ := newTestServer(t)
	w := get(t, h, "/views/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewTree(t *testing.T) {
	h, _ := newTestServer(t)

	w := get(t, h, "/views/list/tree?item=a&item=b")
	require.Equal(t, http.StatusOK, w.Code)
	var info domain.ViewInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, domain.ViewRoot, info.Kind)
	require.Len(t, info.Slots, 4)
	assert.Len(t, info.Slots[3].Views, 2)

	w = get(t, h, "/views/list/tree?format=mermaid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD\n"))

	w = get(t, h, "/views/list/tree?format=markdown")
	assert.Contains(t, w.Body.String(), "# View tree")
}

func TestListHealthMetrics(t *testing.T) {
	h, _ := newTestServer(t)

	w := get(t, h, "/views")
	assert.JSONEq(t, `{"views":["list"]}`, w.Body.String())

	w = get(t, h, "/healthz")
	assert.Equal(t, "ok\n", w.Body.String())

	get(t, h, "/views/list")
	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "arbor_view_events_total")
	assert.Contains(t, w.Body.String(), `arbor_renderer_events_total{encapsulation="root",event="destroy"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest("OPTIONS", "/views/list", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRenderView_Cache(t *testing.T) {
	cache := memory.NewCache()
	h, _ := newTestServer(t, WithCache(cache))

	w := get(t, h, "/views/list?title=Mine&item=a&item=b")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, cache.Len())

	// Parameter order does not matter.
	w = get(t, h, "/views/list?item=a&item=b&title=Mine")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, "<h2>Mine</h2><ul><li>a</li><li>b</li></ul>", w.Body.String())

	// Failed renders are not cached.
	w = get(t, h, "/views/list?item=solo")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, cache.Len())

	req := httptest.NewRequest("DELETE", "/cache", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, cache.Len())

	w = get(t, h, "/views/list?item=a&item=b&title=Mine")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestPurgeCache_Disabled(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest("DELETE", "/cache", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusNoContent, w.Code)
}

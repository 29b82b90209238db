package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/fsnt"
	api "github.com/aretw0/fsnt/pkg/adapters/http"
	"github.com/aretw0/fsnt/pkg/adapters/memory"
	"github.com/aretw0/fsnt/pkg/observability"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lexicon = "# tapes:\tlemma\tsurface\n0\t1\tgo\twent\n1\n"
	tagger  = "# tapes:\tsurface\ttag\n0\t1\twent\tPAST\n1\n"
)

func newServer(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	kit := fsnt.New(fsnt.WithStore(store), fsnt.WithHooks(metrics.Hooks()))
	return api.NewHandler(kit, api.WithGatherer(reg)), store
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func put(t *testing.T, h http.Handler, name, text string) {
	t.Helper()
	w := do(t, h, "PUT", "/transducers/"+name, "text/plain", text)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestLoadSpec(t *testing.T) {
	spec, err := api.LoadSpec()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", spec.Info.Version)
	assert.NotNil(t, spec.Paths.Find("/compose"))
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/info", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "fsnt-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
}

func TestTransducerCRUD(t *testing.T) {
	h, store := newServer(t)
	put(t, h, "lexicon", lexicon)

	w := do(t, h, "GET", "/transducers", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"transducers":["lexicon"]}`, w.Body.String())

	w = do(t, h, "GET", "/transducers/lexicon", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := schema.Decode(w.Body.Bytes(), schema.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.TapeCount)
	assert.Equal(t, 2, doc.States)

	// The JSON document can be stored back under a new name.
	w = do(t, h, "PUT", "/transducers/copy", "application/json", w.Body.String())
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	copied, err := store.Load(t.Context(), "copy")
	require.NoError(t, err)
	assert.Equal(t, "surface", copied.TapeName(1))

	w = do(t, h, "GET", "/transducers/lexicon?format=att", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go\twent")
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	w = do(t, h, "DELETE", "/transducers/lexicon", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, "GET", "/transducers/lexicon", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutTransducer_Malformed(t *testing.T) {
	h, _ := newServer(t)

	w := do(t, h, "PUT", "/transducers/bad", "application/json", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "PUT", "/transducers/bad?format=att", "", "0\t1\ta\n1\t2\ta\tb\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutTransducer_TooManyStates(t *testing.T) {
	h, store := newServer(t)

	w := do(t, h, "PUT", "/transducers/huge?format=att", "", "0\t2000000000\ta\n")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, "PUT", "/transducers/huge", "application/json", `{"tape_count": 1, "states": 2000000000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	names, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPutTransducer_ConfiguredLimit(t *testing.T) {
	kit := fsnt.New(fsnt.WithStore(memory.NewStore()))
	h := api.NewHandler(kit, api.WithMaxStates(2))

	put(t, h, "lexicon", lexicon)
	w := do(t, h, "PUT", "/transducers/longer", "text/plain", "0\t1\ta\n1\t2\tb\n2\n")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPathsAndSummary(t *testing.T) {
	h, _ := newServer(t)
	put(t, h, "lexicon", lexicon)

	w := do(t, h, "GET", "/transducers/lexicon/paths?cycles=1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Paths []ops.Path `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Paths, 1)
	assert.Equal(t, []string{"go", "went"}, body.Paths[0].Tapes)

	w = do(t, h, "GET", "/transducers/lexicon/paths?cycles=x", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/transducers/lexicon/summary", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary ops.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, []string{"lemma", "surface"}, summary.Tapes)
	assert.Equal(t, 1, summary.Transitions)
}

func TestCompose(t *testing.T) {
	h, store := newServer(t)
	put(t, h, "lexicon", lexicon)
	put(t, h, "tagger", tagger)

	req := `{"left":"lexicon","right":"tagger","glue":[{"left":"surface","right":"surface"}],"output":"analyzer"}`
	w := do(t, h, "POST", "/compose", "application/json", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp api.ComposeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "analyzer", resp.Output)
	assert.Equal(t, []string{"lemma", "surface", "tag"}, resp.Summary.Tapes)
	assert.Nil(t, resp.Document)

	stored, err := store.Load(t.Context(), "analyzer")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TapeCount())

	w = do(t, h, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fsnt_compositions_total{result="ok"} 1`)
}

func TestCompose_Errors(t *testing.T) {
	h, _ := newServer(t)
	put(t, h, "lexicon", lexicon)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", "{", http.StatusBadRequest},
		{"missing names", `{"left":"lexicon"}`, http.StatusBadRequest},
		{"unknown transducer", `{"left":"lexicon","right":"nope","glue":[]}`, http.StatusNotFound},
		{"unknown tape", `{"left":"lexicon","right":"lexicon","glue":[{"left":"nope","right":"lemma"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/compose", "application/json", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

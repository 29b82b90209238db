package http

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/fsnt"
	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/aretw0/fsnt/pkg/ports"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// maxBody bounds request bodies.
const maxBody = 32 << 20

// DefaultMaxStates bounds the size of uploaded transducers.
const DefaultMaxStates = 1 << 20

// Toolkit defines what the HTTP server needs from the library facade.
type Toolkit interface {
	Store() ports.TransducerStore
	ComposeStored(ctx context.Context, req fsnt.ComposeRequest) (*fst.Transducer, error)
	Expand(ctx context.Context, name string, maxCycles int) ([]ops.Path, error)
}

// Server serves the toolkit over HTTP.
type Server struct {
	Toolkit   Toolkit
	Gatherer  prometheus.Gatherer
	// MaxStates bounds uploaded transducers. Zero or less disables the check.
	MaxStates int
	spec      *openapi3.T
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer exposes the gathered metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithMaxStates bounds the number of states an uploaded transducer may have.
func WithMaxStates(n int) Option {
	return func(s *Server) {
		s.MaxStates = n
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load OpenAPI spec")
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, errors.Wrap(err, "invalid OpenAPI spec")
	}
	return doc, nil
}

// NewHandler creates a new HTTP handler for the toolkit.
func NewHandler(kit Toolkit, opts ...Option) http.Handler {
	server := &Server{Toolkit: kit, MaxStates: DefaultMaxStates}
	for _, opt := range opts {
		opt(server)
	}
	spec, err := LoadSpec()
	if err != nil {
		slog.Error("OpenAPI spec unavailable", "error", err)
	}
	server.spec = spec

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Route("/transducers", func(r chi.Router) {
		r.Get("/", server.ListTransducers)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", server.GetTransducer)
			r.Put("/", server.PutTransducer)
			r.Delete("/", server.DeleteTransducer)
			r.Get("/paths", server.ExpandTransducer)
			r.Get("/summary", server.SummarizeTransducer)
		})
	})
	r.Post("/compose", server.Compose)

	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>fsnt API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// statusOf maps library errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransducerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrUnknownTape),
		errors.Is(err, domain.ErrDuplicateGlue),
		errors.Is(err, domain.ErrTooManyGlueTapes),
		errors.Is(err, domain.ErrDefinitionConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrResourceExhausted):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err)
	} else {
		slog.Warn(op+" rejected", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// wantsATT reports whether the AT&T text format was requested, through the format
// query parameter or a text/plain content type.
func wantsATT(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return f == "att"
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "text/plain"
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "fsnt-http",
		"version":     strings.TrimSpace(fsnt.Version),
		"api_version": apiVersion,
	})
}

// ListTransducers handles the GET /transducers request.
func (s *Server) ListTransducers(w http.ResponseWriter, r *http.Request) {
	names, err := s.Toolkit.Store().List(r.Context())
	if err != nil {
		writeError(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"transducers": names})
}

// GetTransducer handles the GET /transducers/{name} request.
func (s *Server) GetTransducer(w http.ResponseWriter, r *http.Request) {
	t, err := s.Toolkit.Store().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, "Get", err)
		return
	}
	if r.URL.Query().Get("format") == "att" {
		var buf bytes.Buffer
		if err := att.Write(&buf, t, att.DefaultOptions); err != nil {
			writeError(w, "Get", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, schema.FromTransducer(t))
}

// PutTransducer handles the PUT /transducers/{name} request.
func (s *Server) PutTransducer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Put: Invalid request body", "error", err)
		return
	}

	var t *fst.Transducer
	if wantsATT(r) {
		t, err = att.Read(bytes.NewReader(body), att.WithMaxStates(s.MaxStates))
	} else {
		var doc *schema.Document
		doc, err = schema.Decode(body, schema.FormatJSON)
		if err == nil {
			t, err = doc.Transducer(schema.WithMaxStates(s.MaxStates))
		}
	}
	if err != nil {
		writeError(w, "Put", err)
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.Toolkit.Store().Save(r.Context(), name, t); err != nil {
		writeError(w, "Put", err)
		return
	}
	slog.Debug("Put: transducer stored", "name", name, "states", t.Size())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTransducer handles the DELETE /transducers/{name} request.
func (s *Server) DeleteTransducer(w http.ResponseWriter, r *http.Request) {
	if err := s.Toolkit.Store().Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExpandTransducer handles the GET /transducers/{name}/paths request.
func (s *Server) ExpandTransducer(w http.ResponseWriter, r *http.Request) {
	cycles := ops.DefaultMaxCycles
	if v := r.URL.Query().Get("cycles"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "cycles must be a non-negative integer", http.StatusBadRequest)
			return
		}
		cycles = n
	}

	paths, err := s.Toolkit.Expand(r.Context(), chi.URLParam(r, "name"), cycles)
	if err != nil {
		writeError(w, "Expand", err)
		return
	}
	if paths == nil {
		paths = []ops.Path{}
	}
	writeJSON(w, http.StatusOK, map[string][]ops.Path{"paths": paths})
}

// SummarizeTransducer handles the GET /transducers/{name}/summary request.
func (s *Server) SummarizeTransducer(w http.ResponseWriter, r *http.Request) {
	t, err := s.Toolkit.Store().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, "Summary", err)
		return
	}
	writeJSON(w, http.StatusOK, ops.Summarize(t))
}

// ComposeResponse reports a composition. Document is only set when the result was
// not stored.
type ComposeResponse struct {
	Output   string           `json:"output,omitempty"`
	Summary  ops.Summary      `json:"summary"`
	Document *schema.Document `json:"document,omitempty"`
}

// Compose handles the POST /compose request.
func (s *Server) Compose(w http.ResponseWriter, r *http.Request) {
	var req fsnt.ComposeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Compose: Invalid request body", "error", err)
		return
	}
	if req.Left == "" || req.Right == "" {
		http.Error(w, "left and right are required", http.StatusBadRequest)
		return
	}

	out, err := s.Toolkit.ComposeStored(r.Context(), req)
	if err != nil {
		writeError(w, "Compose", err)
		return
	}

	resp := ComposeResponse{Output: req.Output, Summary: ops.Summarize(out)}
	if req.Output == "" {
		resp.Document = schema.FromTransducer(out)
	}
	writeJSON(w, http.StatusOK, resp)
}

package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/archdeck/pkg/cache"
	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/layout"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/pipeline"
	"github.com/matzehuels/archdeck/pkg/store"
)

// Response headers describing how an artifact was produced.
const (
	HeaderLayoutCache = "X-Archdeck-Layout-Cache"
	HeaderRenderCache = "X-Archdeck-Render-Cache"
	HeaderDiagnostics = "X-Archdeck-Diagnostics"
	HeaderGraphHash   = "X-Archdeck-Graph-Hash"
)

// =============================================================================
// Request and response bodies
// =============================================================================

// specRequest carries a diagram spec either as an inline JSON object or as
// source text in JSON or TOML.
type specRequest struct {
	Spec       json.RawMessage `json:"spec,omitempty"`
	Source     string          `json:"source,omitempty"`
	SpecFormat string          `json:"spec_format,omitempty"`
}

func (r specRequest) source() ([]byte, diagram.Format, error) {
	if len(r.Spec) > 0 && string(r.Spec) != "null" {
		return r.Spec, diagram.FormatJSON, nil
	}
	if r.Source == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "request needs a spec object or source text")
	}
	switch f := diagram.Format(r.SpecFormat); f {
	case "", diagram.FormatJSON:
		return []byte(r.Source), diagram.FormatJSON, nil
	case diagram.FormatTOML:
		return []byte(r.Source), diagram.FormatTOML, nil
	default:
		return nil, "", errors.New(errors.ErrCodeInvalidFormat, "invalid spec_format: %q (must be json or toml)", r.SpecFormat)
	}
}

type renderRequest struct {
	specRequest
	Format     string `json:"format,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Title      string `json:"title,omitempty"`
	Standalone bool   `json:"standalone,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`
}

func (r renderRequest) options() pipeline.Options {
	format := r.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	return pipeline.Options{
		Formats:    []string{format},
		Theme:      r.Theme,
		Title:      r.Title,
		Standalone: r.Standalone,
		Refresh:    r.Refresh,
	}
}

type layoutResponse struct {
	Layout      layout.Result        `json:"layout"`
	Diagnostics []diagram.Diagnostic `json:"diagnostics"`
	GraphHash   string               `json:"graph_hash,omitempty"`
	Empty       bool                 `json:"empty"`
	Cached      bool                 `json:"cached"`
}

type createDiagramRequest struct {
	specRequest
	Title string `json:"title"`
}

// diagramView is a stored record as returned by the API. JSON specs are
// inlined as objects, TOML specs as source text.
type diagramView struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Format    string          `json:"format"`
	Spec      json.RawMessage `json:"spec,omitempty"`
	Source    string          `json:"source,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func viewOf(r store.Record) diagramView {
	v := diagramView{ID: r.ID, Title: r.Title, Format: r.Format, CreatedAt: r.CreatedAt}
	if diagram.Format(r.Format) == diagram.FormatTOML {
		v.Source = string(r.Spec)
	} else {
		v.Spec = json.RawMessage(r.Spec)
	}
	return v
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "archdeck"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, format, err := req.source()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, src, format, req.options())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, format, err := req.source()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	g, empty, err := pipeline.Parse(ctx, src, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if empty {
		writeJSON(w, http.StatusOK, layoutResponse{
			Layout:      layout.Result{Strategy: layout.StrategyLayered, Nodes: []layout.Placed{}, Edges: []diagram.Edge{}},
			Diagnostics: []diagram.Diagnostic{},
			Empty:       true,
		})
		return
	}

	opts := req.options()
	res, hit := s.runner.Layout(ctx, g, opts)
	diags := pipeline.Diagnostics(g, res)
	if diags == nil {
		diags = []diagram.Diagnostic{}
	}
	for _, d := range diags {
		s.logger.Warn(d.Message, "code", d.Code)
	}
	hash, _ := cache.HashJSON(g)
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:      res,
		Diagnostics: diags,
		GraphHash:   hash,
		Cached:      hit,
	})
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req createDiagramRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, format, err := req.source()
	if err == nil {
		err = errors.ValidateTitle(req.Title)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// Reject specs that would never render; empty ones are fine.
	if _, _, err := pipeline.Parse(r.Context(), src, format); err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.Put(r.Context(), store.Record{Title: req.Title, Format: string(format), Spec: src})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/diagrams/"+rec.ID)
	writeJSON(w, http.StatusCreated, viewOf(rec))
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views := make([]diagramView, len(recs))
	for i, rec := range recs {
		views[i] = viewOf(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": views})
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	rec, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	rec, err := s.lookup(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	req := renderRequest{
		Format:     q.Get("format"),
		Theme:      q.Get("theme"),
		Title:      q.Get("title"),
		Standalone: q.Get("standalone") == "true",
		Refresh:    q.Get("refresh") == "true",
	}
	if req.Title == "" {
		req.Title = rec.Title
	}
	s.render(w, r, rec.Spec, diagram.Format(rec.Format), req.options())
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := chi.URLParam(r, "id")
	err := errors.ValidateDiagramID(id)
	if err == nil {
		err = s.store.Delete(r.Context(), id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup loads the record named by the {id} route parameter. Malformed ids
// fail before the store is asked.
func (s *Server) lookup(r *http.Request) (store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDiagramID(id); err != nil {
		return store.Record{}, err
	}
	return s.store.Get(r.Context(), id)
}

// render runs the pipeline for a single format and writes the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request, src []byte, format diagram.Format, opts pipeline.Options) {
	opts.Logger = s.logger
	res, err := s.runner.Execute(r.Context(), src, format, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := opts.Formats[0]
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentType(out))
	h.Set(HeaderLayoutCache, hitOrMiss(res.CacheInfo.LayoutHit))
	h.Set(HeaderRenderCache, hitOrMiss(res.CacheInfo.RenderHit))
	h.Set(HeaderDiagnostics, strconv.Itoa(len(res.Diagnostics)))
	if res.GraphHash != "" {
		h.Set(HeaderGraphHash, res.GraphHash)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[out])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store != nil {
		return true
	}
	writeError(w, http.StatusServiceUnavailable, errors.ErrCodeUnsupported, "diagram storage is not configured")
	return false
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// fail maps err to a status and writes the error body. Server-side failures
// are logged; client mistakes are not.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, status, code, errors.UserMessage(err))
}

func statusFor(err error) int {
	return errors.HTTPStatus(err)
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errors.Code, message string) {
	writeJSON(w, status, map[string]string{"error": message, "code": string(code)})
}

package server

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/citegraph/pkg/buildinfo"
	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	cgio "github.com/matzehuels/citegraph/pkg/io"
	"github.com/matzehuels/citegraph/pkg/service"
)

type message struct {
	Message string `json:"mensaje"`
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"mensaje": "citegraph API",
		"version": buildinfo.Version,
		"docs":    "/api/v1",
		"status":  "healthy",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// =============================================================================
// Searches
// =============================================================================

func (s *Server) startSearch(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	started, err := s.svc.StartSearch(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, started)
}

func (s *Server) searchSync(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.svc.SearchSync(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Progress(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Cancel(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, message{"búsqueda cancelada"})
}

func (s *Server) result(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Result(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) providers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Providers())
}

func (s *Server) paper(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	info, err := s.svc.Paper(r.Context(), q.Get("titulo"), q.Get("motor"), q.Get("api_key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) authorPapers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limite", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	res, err := s.svc.AuthorPapers(r.Context(), q.Get("nombre"), limit, q.Get("api_key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// Current graph
// =============================================================================

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Graph())
}

func (s *Server) graphJSON(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.GraphJSON())
}

var contentTypes = map[string]string{
	service.FormatVisJS: "application/json",
	service.FormatJSON:  "application/json",
	service.FormatDOT:   "text/vnd.graphviz",
	service.FormatSVG:   "image/svg+xml",
	service.FormatPDF:   "application/pdf",
	service.FormatPNG:   "image/png",
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("formato")
	if format == "" {
		format = service.FormatVisJS
	}
	var buf bytes.Buffer
	if err := s.svc.Export(&buf, format); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.svc.Clear()
	s.writeJSON(w, http.StatusOK, message{"grafo limpiado correctamente"})
}

func (s *Server) importGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := cgio.ReadVisJS(r.Body)
	if err != nil {
		s.writeError(w, decodeError(err))
		return
	}
	res, err := s.svc.Import(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// Analytics
// =============================================================================

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	req := service.MetricsRequest{}
	var err error
	if req.PageRank, err = queryBool(r, "pagerank", true); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Betweenness, err = queryBool(r, "betweenness", false); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Closeness, err = queryBool(r, "closeness", false); err != nil {
		s.writeError(w, err)
		return
	}
	s.computeAndWrite(w, r, req)
}

func (s *Server) computeMetrics(w http.ResponseWriter, r *http.Request) {
	req := service.MetricsRequest{PageRank: true}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.computeAndWrite(w, r, req)
}

func (s *Server) computeAndWrite(w http.ResponseWriter, r *http.Request, req service.MetricsRequest) {
	rep, err := s.svc.Metrics(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Classify()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Statistics())
}

// =============================================================================
// Vertices
// =============================================================================

func (s *Server) vertex(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carries one (escaped
	// slashes), and on the decoded Path otherwise.
	id := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		var err error
		if id, err = url.PathUnescape(id); err != nil {
			s.writeError(w, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "invalid vertex id"))
			return
		}
	}
	d, err := s.svc.Vertex(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) vertices(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limite", service.DefaultPageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	page, err := s.svc.Vertices(limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/graph"
	"github.com/revelaction/mindmap/render"
	"github.com/revelaction/mindmap/stat"
	"github.com/revelaction/mindmap/storage"
)

const maxBodyBytes = 1 << 20

// BuildRequest is the body of /api/build and /api/stats. An empty mode
// selects the server default.
type BuildRequest struct {
	Text string `json:"text" validate:"max=100000"`
	Mode string `json:"mode" validate:"omitempty,oneof=token-role noun-phrase dependency"`

	// Name stores the built graph under this name when set.
	Name string `json:"name,omitempty" validate:"omitempty,max=200"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type graphsResponse struct {
	Graphs []string `json:"graphs"`
}

type importResponse struct {
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) modes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": s.builder.Mode(),
		"modes":   builder.SupportedModes(),
	})
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeBuild(w, r)
	if !ok {
		return
	}

	g, ok := s.buildGraph(w, r, req)
	if !ok {
		return
	}

	if req.Name != "" {
		if !s.writeGraph(w, req.Name, g) {
			return
		}
	}

	s.writeGraphFormat(w, r, g)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeBuild(w, r)
	if !ok {
		return
	}

	g, ok := s.buildGraph(w, r, req)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, stat.Graph(g))
}

func (s *Server) decodeBuild(w http.ResponseWriter, r *http.Request) (BuildRequest, bool) {
	var req BuildRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, formatValidationError(err).Error())
		return req, false
	}

	return req, true
}

func (s *Server) buildGraph(w http.ResponseWriter, r *http.Request, req BuildRequest) (*graph.Graph, bool) {
	mode := s.builder.Mode()
	if req.Mode != "" {
		mode = builder.Mode(req.Mode)
	}

	start := time.Now()
	g, err := s.builder.BuildMode(r.Context(), req.Text, mode)

	var parseErr *builder.ParseError
	switch {
	case err == nil:
		s.metrics.ObserveBuild(string(mode), "ok", time.Since(start), g.NumNodes())
		return g, true
	case errors.Is(err, builder.ErrUnsupportedMode):
		s.metrics.ObserveBuild(string(mode), "unsupported_mode", time.Since(start), 0)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &parseErr):
		s.metrics.ObserveBuild(string(mode), "parse_failure", time.Since(start), 0)
		s.logger.Warn("parse failure", zap.Error(err), zap.String("mode", string(mode)))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.metrics.ObserveBuild(string(mode), "error", time.Since(start), 0)
		s.logger.Error("build failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}

	return nil, false
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	if !s.hasGraphs(w) {
		return
	}

	names, err := s.graphs.ListGraphs()
	if err != nil {
		s.logger.Error("list graphs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, graphsResponse{Graphs: names})
}

func (s *Server) exportGraph(w http.ResponseWriter, r *http.Request) {
	if !s.hasGraphs(w) {
		return
	}

	name := chi.URLParam(r, "name")
	g, err := s.graphs.ReadGraph(name)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "graph not found: "+name)
		return
	case errors.Is(err, storage.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		s.logger.Error("read graph", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeGraphFormat(w, r, g)
}

// importGraph stores a portable graph. Without a name in the path a random
// one is generated.
func (s *Server) importGraph(w http.ResponseWriter, r *http.Request) {
	if !s.hasGraphs(w) {
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		name = uuid.New().String()
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := graph.Unmarshal(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid graph: "+err.Error())
		return
	}

	if !s.writeGraph(w, name, g) {
		return
	}

	writeJSON(w, http.StatusCreated, importResponse{Name: name, Nodes: g.NumNodes(), Edges: g.NumEdges()})
}

func (s *Server) writeGraph(w http.ResponseWriter, name string, g *graph.Graph) bool {
	if !s.hasGraphs(w) {
		return false
	}

	err := s.graphs.WriteGraph(name, g)
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("write graph", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}

	return false
}

func (s *Server) hasGraphs(w http.ResponseWriter) bool {
	if s.graphs == nil {
		writeError(w, http.StatusNotImplemented, "no graph repository configured")
		return false
	}

	return true
}

// writeGraphFormat writes g in the format of the "format" query parameter:
// json (portable, default), cytoscape or html.
func (s *Server) writeGraphFormat(w http.ResponseWriter, r *http.Request, g *graph.Graph) {
	switch format := r.URL.Query().Get("format"); format {
	case "", render.FormatJSON:
		writeJSON(w, http.StatusOK, graph.ToPortable(g))
	case render.FormatCytoscape:
		writeJSON(w, http.StatusOK, graph.ToCytoscape(g))
	case render.FormatHTML:
		opts := render.DefaultHTMLOptions()
		if layout := r.URL.Query().Get("layout"); layout != "" {
			opts.Layout = layout
		}
		if theme := r.URL.Query().Get("theme"); theme != "" {
			opts.Theme = theme
		}

		page, err := render.GenerateHTML(g, opts)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, page)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format "+format+": must be json, cytoscape or html")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

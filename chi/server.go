// Package chi serves a documentation site for local preview, adding the
// table of contents to every page and proxying the search box.
package chi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/docsite"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the preview HTTP server.
type Server struct {
	router    chi.Router
	root      string
	processor docsite.PageProcessor
	searches  *docsite.ActivityTracker
	log       *slog.Logger
}

// NewServer creates a server for the site in root. searcher may be nil,
// in which case /search answers 501.
func NewServer(root string, processor docsite.PageProcessor, searcher docsite.Searcher, log *slog.Logger) *Server {
	s := &Server{
		root:      root,
		processor: processor,
		log:       log,
	}
	if searcher != nil {
		s.searches = docsite.NewActivityTracker(searcher, nil, nil)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)
	r.Get("/*", s.handlePage)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	inFlight := 0
	if s.searches != nil {
		inFlight = s.searches.InFlight()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"searchesInFlight": inFlight,
	})
}

type searchResponse struct {
	Query   string                    `json:"query"`
	Total   int                       `json:"total"`
	Results []docsite.FormattedResult `json:"results"`
}

// handleSearch forwards ?q= to the search service and returns the results
// formatted for display.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searches == nil {
		jsonError(w, docsite.Errorf(docsite.ENOTIMPLEMENTED, "search is not configured"))
		return
	}

	q := docsite.SearchQuery{Query: r.URL.Query().Get("q")}
	for name, dst := range map[string]*int{"page": &q.Page, "per_page": &q.PerPage} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, docsite.Errorf(docsite.EINVALID, "%s must be a number", name))
			return
		}
		*dst = n
	}

	resp, err := s.searches.Search(r.Context(), q)
	if err != nil {
		jsonError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   q.Query,
		Total:   resp.Total,
		Results: docsite.FormatResults(resp),
	})
}

// handlePage serves files from the site root. HTML pages pass through the
// page processor; a missing page falls back to /404.html when present.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)
	name := filepath.Join(s.root, filepath.FromSlash(urlPath))

	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		urlPath = path.Join(urlPath, "index.html")
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.notFound(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !isHTML(name) {
		http.ServeFile(w, r, name)
		return
	}
	s.servePage(w, name, urlPath, http.StatusOK)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(s.root, docsite.DefaultExcludedPath)
	if _, err := os.Stat(name); err != nil {
		http.NotFound(w, r)
		return
	}
	s.servePage(w, name, docsite.DefaultExcludedPath, http.StatusNotFound)
}

func (s *Server) servePage(w http.ResponseWriter, name, urlPath string, status int) {
	data, err := os.ReadFile(name)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	res, err := s.processor.Process(string(data), urlPath)
	if err != nil {
		s.log.Error("toc", "path", urlPath, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(res.HTML))
}

func isHTML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonError writes err with the HTTP status matching its error code.
func jsonError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch docsite.ErrorCode(err) {
	case docsite.EINVALID:
		status = http.StatusBadRequest
	case docsite.ENOTFOUND:
		status = http.StatusNotFound
	case docsite.ENOTIMPLEMENTED:
		status = http.StatusNotImplemented
	}
	writeJSON(w, status, map[string]string{"error": docsite.ErrorMessage(err)})
}

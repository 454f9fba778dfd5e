// Package api exposes the compiler over HTTP: a JSON compile endpoint,
// a health check, and an embedded console page for trying queries from
// a browser.
package api

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/google/safehtml/template"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"

	"github.com/kbastani/pinot/compiler"
	"github.com/kbastani/pinot/request"
)

//go:embed templates/*
var templateFS embed.FS

// Config carries the server wiring. Zero-value fields get defaults: the
// address defaults to ":8099", the logger to the logrus standard logger,
// and the compiler to one with the default configuration.
type Config struct {
	Addr     string
	Logger   *logrus.Logger
	Compiler *compiler.Compiler
}

// Server is the HTTP compile service.
type Server struct {
	addr     string
	logger   *logrus.Logger
	compiler *compiler.Compiler
	console  *template.Template
	server   *http.Server
}

// NewServer builds a server from the config. The embedded console
// template is parsed once here.
func NewServer(config Config) (*Server, error) {
	if config.Addr == "" {
		config.Addr = ":8099"
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Compiler == nil {
		config.Compiler = compiler.New(compiler.Config{})
	}

	trustedFS := template.TrustedFSFromEmbed(templateFS)
	console, err := template.New("console.html").ParseFS(trustedFS, "templates/console.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:     config.Addr,
		logger:   config.Logger,
		compiler: config.Compiler,
		console:  console,
	}
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/compile", s.handleCompile)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/", s.handleConsole)
	return s.middleware(mux)
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		errs <- s.server.ListenAndServe()
	}()
	s.logger.WithField("addr", s.addr).Info("listening")

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

type compileRequest struct {
	SQL string `json:"sql"`
}

type compileResponse struct {
	Query *request.Query `json:"query"`

	// LiteralOnly marks queries whose whole select list is constant;
	// those are answerable without touching a table.
	LiteralOnly bool `json:"literalOnly"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.SQL == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing sql field"})
		return
	}

	query, err := s.compiler.Compile(req.SQL)
	if err != nil {
		status := http.StatusInternalServerError
		var compilationErr *compiler.CompilationError
		if errors.As(err, &compilationErr) {
			status = http.StatusBadRequest
		}
		s.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, compileResponse{
		Query:       query,
		LiteralOnly: literalOnly(query),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.console.Execute(w, nil); err != nil {
		s.logger.WithError(err).Error("console render failed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("response write failed")
	}
}

// literalOnly reports whether every select item is constant.
func literalOnly(query *request.Query) bool {
	for _, e := range query.SelectList {
		if !request.IsLiteralOnly(e) {
			return false
		}
	}
	return len(query.SelectList) > 0
}

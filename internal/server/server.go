// Package server exposes collected build artifacts over HTTP.
//
// The server publishes a small read-only API for CI consumers and local
// testing: a health endpoint, a JSON index of the built packages, and the
// raw artifact files under /repo/. It is meant to run next to an artifacts
// directory produced by a collection run, for example to let another
// machine pacman -U a freshly built package.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pkgsmith/pkg/artifacts"
	"github.com/matzehuels/pkgsmith/pkg/buildinfo"
	"github.com/matzehuels/pkgsmith/pkg/versionfile"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8420"

// Options configures a Server.
type Options struct {
	// Addr is the listen address, for example ":8420". Use "127.0.0.1:0"
	// to bind a random port.
	Addr string
	// Dir is the artifacts directory to publish.
	Dir string
	// Logger receives request logs at debug level.
	Logger *log.Logger
}

// Server serves an artifacts directory over HTTP. The listener is bound in
// New so the bound address is known before Start.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	dir        string
	logger     *log.Logger
}

// New creates a Server and binds its listener. The server does not accept
// connections until Start is called.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", opts.Addr, err)
	}

	s := &Server{
		listener: listener,
		addr:     listener.Addr().String(),
		dir:      opts.Dir,
		logger:   opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/packages.json", s.handleIndex)
	r.Handle("/repo/*", http.StripPrefix("/repo/", http.FileServer(http.Dir(opts.Dir))))

	s.httpServer = &http.Server{
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start begins accepting connections. This is non-blocking.
func (s *Server) Start() {
	s.logger.Info("serving artifacts", "addr", s.addr, "dir", s.dir)
	go func() {
		if err := s.httpServer.Serve(s.listener); err != http.ErrServerClosed {
			s.logger.Error("server stopped", "err", err)
		}
	}()
}

// Stop gracefully shuts down the server, waiting up to five seconds for
// in-flight requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound listen address, for example "127.0.0.1:8420".
func (s *Server) Addr() string {
	return s.addr
}

// URL returns the full base URL of the server.
func (s *Server) URL() string {
	return "http://" + s.addr
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// indexResponse is the body of /packages.json. Version and Receipt are
// filled from version.env and collection.json when the artifacts directory
// contains them.
type indexResponse struct {
	Version  *versionfile.File  `json:"version,omitempty"`
	Receipt  *artifacts.Receipt `json:"receipt,omitempty"`
	Packages []packageEntry     `json:"packages"`
}

type packageEntry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	URL     string    `json:"url"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "artifacts directory not found"})
		return
	}

	resp := indexResponse{Packages: []packageEntry{}}
	for _, entry := range entries {
		if entry.IsDir() || !artifacts.IsPackage(entry.Name()) {
			continue
		}
		pkg := packageEntry{
			Name: entry.Name(),
			URL:  "/repo/" + entry.Name(),
		}
		if info, err := entry.Info(); err == nil {
			pkg.Size = info.Size()
			pkg.ModTime = info.ModTime()
		}
		resp.Packages = append(resp.Packages, pkg)
	}

	if vf, err := versionfile.Load(filepath.Join(s.dir, versionfile.DefaultName)); err == nil {
		resp.Version = vf
	}
	if receipt, err := loadReceipt(filepath.Join(s.dir, artifacts.ReceiptName)); err == nil {
		resp.Receipt = receipt
	}

	writeJSON(w, http.StatusOK, resp)
}

func loadReceipt(path string) (*artifacts.Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var receipt artifacts.Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request with its status and duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start))
		})
	}
}

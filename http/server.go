package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/repodoc"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is the address the API listens on by default.
const DefaultAddr = "127.0.0.1:8000"

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 10 * time.Second

// Server serves the README generation API.
//
//	GET /scrape?repo_url=URL  -> 200 {"readme": "..."}
//	GET /health               -> 200 {"status": "ok"}
//
// Errors are returned as {"detail": "..."} with a status derived from the
// application error code. Generation runs one request at a time since each
// request drives a browser session.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	// Addr is the bind address. Defaults to DefaultAddr.
	Addr string

	// AllowOrigin is sent as Access-Control-Allow-Origin. Defaults to "*".
	AllowOrigin string

	Readme repodoc.ReadmeGenerator
	Logger *slog.Logger

	mu sync.Mutex
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	s := &Server{
		Addr:        DefaultAddr,
		AllowOrigin: "*",
		router:      http.NewServeMux(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.router.HandleFunc("GET /scrape", s.handleScrape)
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.cors(s.router))
}

// Open binds the listener. Call Serve to start accepting connections.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	return nil
}

// URL returns the base URL of the listening server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Serve accepts connections until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Open(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(ctx)
	})
	return g.Wait()
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	repoURL := strings.TrimSpace(r.URL.Query().Get("repo_url"))
	if repoURL == "" {
		s.Error(w, r, repodoc.Errorf(repodoc.EINVALID, "repo_url is required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	readme, err := s.Readme.Generate(r.Context(), repoURL)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"readme": readme})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Error writes err as a JSON detail body. Internal errors are logged and
// their message is hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := repodoc.ErrorCode(err), repodoc.ErrorMessage(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code, message = repodoc.ETIMEOUT, "request timed out"
	}

	if code == repodoc.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	writeJSON(w, ErrorStatusCode(code), map[string]string{"detail": message})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	repodoc.ECONFLICT: http.StatusConflict,
	repodoc.EINVALID:  http.StatusBadRequest,
	repodoc.ENOTFOUND: http.StatusNotFound,
	repodoc.ETIMEOUT:  http.StatusGatewayTimeout,
	repodoc.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		defer func(begin time.Time) {
			s.Logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(sw, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

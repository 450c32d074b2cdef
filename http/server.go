package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pagecollect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAddr is the default listen address of the API server.
const DefaultAddr = "localhost:8765"

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// maxBodySize bounds request bodies. Imports carry every stored page.
const maxBodySize = 64 << 20

// Server serves the JSON API used by browser front-ends to store pages,
// manage settings, and query the LLM backend.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the bind address, e.g. "localhost:8765".
	Addr string

	// APIKey, when set, must be sent in the X-API-Key header.
	APIKey string

	// Logger receives request and error logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Now returns the current time. Used to name backup downloads.
	Now func() time.Time

	PageService     pagecollect.PageService
	SettingsService pagecollect.SettingsService
	BackupService   pagecollect.BackupService
	Collector       pagecollect.Collector
	Gateway         pagecollect.Gateway
}

// NewServer returns a new Server. Services must be set before the first request.
func NewServer() *Server {
	s := &Server{
		Addr:   DefaultAddr,
		Logger: slog.Default(),
		Now:    time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors)
	r.Use(s.requireAPIKey)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/pages", func(r chi.Router) {
			r.Get("/", s.handleListPages)
			r.Post("/", s.handleStorePage)
			r.Delete("/", s.handleClearPages)
			r.Delete("/item", s.handleDeletePage)
		})
		r.Post("/collect", s.handleCollect)

		r.Post("/query", s.handleQuery)
		r.Post("/test", s.handleTest)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/options", s.handleGetOptions)
		r.Put("/options", s.handlePutOptions)
		r.Post("/options/reset", s.handleResetOptions)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ServeHTTP routes a request. Useful for testing without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open binds the listener and starts serving in a separate goroutine.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("server stopped", "error", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.PageService.FindPages(r.Context(), pagecollect.PageFilter{})
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (s *Server) handleStorePage(w http.ResponseWriter, r *http.Request) {
	var page pagecollect.PageRecord
	if err := decodeJSON(w, r, &page); err != nil {
		s.Error(w, r, err)
		return
	}
	res, err := s.Collector.Store(r.Context(), &page)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

func (s *Server) handleClearPages(w http.ResponseWriter, r *http.Request) {
	if err := s.PageService.DeleteAllPages(r.Context()); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.Error(w, r, pagecollect.Errorf(pagecollect.EINVALID, "url query parameter required"))
		return
	}
	if err := s.PageService.DeletePage(r.Context(), url); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type collectRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if len(req.URLs) == 0 {
		s.Error(w, r, pagecollect.Errorf(pagecollect.EINVALID, "at least one URL required"))
		return
	}
	summary, err := s.Collector.CollectAll(r.Context(), req.URLs, nil)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// queryRequest is a QueryRequest whose omitted fields fall back to the
// stored settings, the default system prompt, and the stored pages.
type queryRequest struct {
	Settings       *pagecollect.BackendSettings `json:"settings"`
	Prompt         string                       `json:"prompt"`
	SystemPrompt   *string                      `json:"systemPrompt"`
	CollectedPages []*pagecollect.PageRecord    `json:"collectedPages"`
}

// handleQuery always responds 200 with a QueryResult once the body parses;
// gateway failures are reported in the result, not the status code.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.Error(w, r, err)
		return
	}
	req, err := s.resolveQuery(r.Context(), &body)
	if err != nil {
		writeJSON(w, http.StatusOK, pagecollect.NewQueryResult("", err))
		return
	}
	writeJSON(w, http.StatusOK, pagecollect.QueryLLM(r.Context(), s.Gateway, req))
}

func (s *Server) resolveQuery(ctx context.Context, body *queryRequest) (*pagecollect.QueryRequest, error) {
	req := &pagecollect.QueryRequest{
		Settings:       body.Settings,
		Prompt:         body.Prompt,
		CollectedPages: body.CollectedPages,
	}
	if req.CollectedPages == nil {
		pages, err := s.PageService.FindPages(ctx, pagecollect.PageFilter{})
		if err != nil {
			return nil, err
		}
		req.CollectedPages = pages
	}
	if req.Settings == nil {
		settings, err := s.SettingsService.FindBackendSettings(ctx)
		if err != nil {
			return nil, err
		}
		req.Settings = settings
	}
	if body.SystemPrompt != nil {
		req.SystemPrompt = *body.SystemPrompt
	} else {
		opts, err := s.SettingsService.FindOptions(ctx)
		if err != nil {
			return nil, err
		}
		req.SystemPrompt = opts.ContentSettings.DefaultSystemPrompt
	}
	return req, nil
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Settings *pagecollect.BackendSettings `json:"settings"`
	}
	// An empty body tests the stored settings.
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.Error(w, r, pagecollect.Errorf(pagecollect.EINVALID, "invalid JSON body: %s", err))
		return
	}
	settings := body.Settings
	if settings == nil {
		var err error
		if settings, err = s.SettingsService.FindBackendSettings(r.Context()); err != nil {
			writeJSON(w, http.StatusOK, pagecollect.NewTestResult(err))
			return
		}
	}
	writeJSON(w, http.StatusOK, pagecollect.TestConnection(r.Context(), s.Gateway, settings))
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.SettingsService.FindBackendSettings(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings pagecollect.BackendSettings
	if err := decodeJSON(w, r, &settings); err != nil {
		s.Error(w, r, err)
		return
	}
	if err := settings.Validate(); err != nil {
		s.Error(w, r, err)
		return
	}
	if err := s.SettingsService.UpdateBackendSettings(r.Context(), &settings); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &settings)
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.SettingsService.FindOptions(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handlePutOptions(w http.ResponseWriter, r *http.Request) {
	opts := pagecollect.DefaultOptions()
	if err := decodeJSON(w, r, opts); err != nil {
		s.Error(w, r, err)
		return
	}
	opts.Normalize()
	if err := opts.LLMSettings.Validate(); err != nil {
		s.Error(w, r, err)
		return
	}
	if err := s.SettingsService.UpdateOptions(r.Context(), opts); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleResetOptions(w http.ResponseWriter, r *http.Request) {
	if err := s.SettingsService.ResetOptions(r.Context()); err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagecollect.DefaultOptions())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.BackupService.Export(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	name := pagecollect.DefaultBackupName(s.Now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap pagecollect.Snapshot
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&snap); err != nil {
		s.Error(w, r, pagecollect.Errorf(pagecollect.EINVALID, "Error importing data: %s", err))
		return
	}
	if err := s.BackupService.Import(r.Context(), &snap); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response. Internal errors are logged and their
// details are hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := pagecollect.ErrorCode(err), pagecollect.ErrorMessage(err)
	if code == pagecollect.EINTERNAL {
		s.Logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		msg = "Internal error"
	}
	writeJSON(w, ErrorStatusCode(code), map[string]string{"error": msg})
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	switch code {
	case pagecollect.EINVALID, pagecollect.ENOCONTENT:
		return http.StatusBadRequest
	case pagecollect.ENOTFOUND:
		return http.StatusNotFound
	case pagecollect.EBACKEND, pagecollect.EUNREACHABLE, pagecollect.EFORMAT, pagecollect.EMALFORMED:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.APIKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		provided := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.APIKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cors allows browser extensions and local pages to call the API.
// Preflight requests are answered before authentication.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return pagecollect.Errorf(pagecollect.EINVALID, "invalid JSON body: %s", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package console

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"jasper/internal/logging"
)

//go:embed shell.html
var shellHTML []byte

// Backend is the full slice of the assistant API the web console uses.
type Backend interface {
	QueryAPI
	OpenAPI
	RestartAPI
	StatusAPI
}

// Server is the web console: it serves the page shell, streams view events
// to it, and accepts the page's submit, action, and restart posts. All
// rendering happens server-side; the shell is a thin event applier.
type Server struct {
	logger     logging.Logger
	hub        *Broadcaster
	chat       *ChatController
	actions    *ActionRegistry
	dispatcher *ActionDispatcher

	// Recovery and Index carry the polling configuration; callers adjust
	// their intervals before Run.
	Recovery *RecoveryPoller
	Index    *IndexStatusPoller

	recovering atomic.Bool
	server     *http.Server
}

func NewServer(backend Backend, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	hub := NewBroadcaster()
	renderer := NewRenderer(hub, NewMarkdown(), nil)
	return &Server{
		logger:     logger,
		hub:        hub,
		chat:       NewChatController(backend, renderer, logger),
		actions:    renderer.Actions(),
		dispatcher: NewActionDispatcher(backend, logger),
		Recovery:   NewRecoveryPoller(backend, hub, hub, nil, logger),
		Index:      NewIndexStatusPoller(backend, hub, nil, logger),
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.Shell)
	mux.HandleFunc("/events", s.Events)
	mux.HandleFunc("/submit", s.Submit)
	mux.HandleFunc("/action", s.Action)
	mux.HandleFunc("/restart", s.RestartBackend)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return LoggingMiddleware(s.logger, mux)
}

// Run serves the console on addr until ctx is cancelled. The index poller
// runs for the server's whole lifetime alongside the listener.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		_ = s.Index.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console_listening", logging.F("addr", addr))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) Shell(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(shellHTML)
}

// Events is the SSE stream the page applies view mutations from. The
// stream carries no history: connecting is joining the conversation from
// now on.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := s.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	_, _ = w.Write([]byte(":\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(data)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

type submitRequest struct {
	Query string `json:"query"`
}

type actionRequest struct {
	Token string `json:"token"`
}

// Submit runs one chat cycle synchronously. Overlapping posts run
// overlapping cycles; nothing serializes them.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.chat.Submit(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Action resolves a rendered card's token and fires the open side effect.
// A failed open is logged and still answered ok; only an unknown token is
// an error.
func (s *Server) Action(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ref, ok := s.actions.Lookup(req.Token)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	_ = s.dispatcher.Open(r.Context(), ref.ID, ref.Provider)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RestartBackend starts one restart-and-recover flow. The flow outlives
// the request and keeps probing after the page that asked for it reloads,
// so it runs on a background context.
func (s *Server) RestartBackend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.recovering.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "restart already in progress")
		return
	}
	go func() {
		defer s.recovering.Store(false)
		if err := s.Recovery.Run(context.Background()); err != nil {
			s.logger.Warn("recovery_failed", logging.F("error", err))
		}
	}()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// ErrUnknownEvent is returned by backends for event types they do not handle.
var ErrUnknownEvent = errors.New("unknown event type")

// Server exposes the app state and an input replay endpoint for scripted
// runs. It binds to loopback only in practice; there is no auth.
type Server struct {
	backend Backend
	demo    Demo
	srv     *http.Server
}

func NewServer(addr string, backend Backend, demo Demo) *Server {
	s := &Server{backend: backend, demo: demo}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.NoCache)
	r.Route("/__dev", func(r chi.Router) {
		r.Get("/ready", s.handleReady)
		r.Get("/state", s.handleState)
		r.Get("/demos", s.handleDemos)
		r.Post("/event", s.handleEvent)
		r.Post("/demo", s.handleDemo)
	})
	return r
}

// Start serves in the background; listen errors go to onErr.
func (s *Server) Start(onErr func(error)) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onErr != nil {
			onErr(err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	st := s.backend.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         st.Error == "",
		"state":      st.Screen,
		"demo":       st.Demo,
		"render_seq": st.RenderSeq,
		"pending":    st.Pending,
		"error":      st.Error,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.State())
}

func (s *Server) handleDemos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"demos": s.demo.Names()})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ev.Type = strings.TrimSpace(ev.Type)
	if ev.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	if err := s.backend.Dispatch(ev); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownEvent) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.backend.State())
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Demo string `json:"demo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Demo = strings.TrimSpace(req.Demo)
	if req.Demo == "" {
		writeError(w, http.StatusBadRequest, "demo is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	resolved, err := s.backend.RunDemo(ctx, req.Demo)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error(), "state": resolved})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "state": resolved, "requested": req.Demo})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}

// Package server exposes the analysis, speech and chat operations over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tmc/langchaingo/llms"

	"github.com/anandvisw/pharmscribe-go/internal/analysis"
	"github.com/anandvisw/pharmscribe-go/internal/chat"
	"github.com/anandvisw/pharmscribe-go/internal/history"
	"github.com/anandvisw/pharmscribe-go/internal/speech"
)

// Server wires the core components behind the HTTP API.
type Server struct {
	analyzer  *analysis.Analyzer
	synth     speech.Synthesizer
	chatModel llms.Model
	store     *history.Store
	logger    *slog.Logger

	primaryVoice   string
	secondaryVoice string

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// chatSession serializes Send calls on one conversational session; the
// session itself has no internal locking by design.
type chatSession struct {
	mu      sync.Mutex
	session *chat.Session
}

// Options carries the server's voice presets.
type Options struct {
	PrimaryVoice   string
	SecondaryVoice string
}

// New creates the server. store may be nil when history is disabled.
func New(analyzer *analysis.Analyzer, synth speech.Synthesizer, chatModel llms.Model, store *history.Store, opts Options, logger *slog.Logger) *Server {
	return &Server{
		analyzer:       analyzer,
		synth:          synth,
		chatModel:      chatModel,
		store:          store,
		logger:         logger,
		primaryVoice:   opts.PrimaryVoice,
		secondaryVoice: opts.SecondaryVoice,
		sessions:       make(map[string]*chatSession),
	}
}

// Routes builds the HTTP routing table.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/speech", s.handleSpeech)

		r.Post("/chat", s.handleChatStart)
		r.Post("/chat/{sessionID}", s.handleChatSend)
		r.Get("/chat/ws", s.handleChatWS)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Get("/{reportID}", s.handleGetReport)
			r.Delete("/{reportID}", s.handleDeleteReport)
		})
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // long for LLM responses
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) getSession(id string) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) newSession() *chatSession {
	cs := &chatSession{session: chat.NewSession(s.chatModel, s.logger)}
	s.mu.Lock()
	s.sessions[cs.session.ID()] = cs
	s.mu.Unlock()
	return cs
}

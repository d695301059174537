// Package server exposes the bridge's HTTP boundary: the Slack events
// webhook and the LangGraph callback webhook. Handlers only validate, parse
// and enqueue; all outbound network calls happen on the dispatch worker, so
// webhook acknowledgment never waits on a backend round-trip.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/config"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/dispatch"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/handler"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/models"
)

// StateClient reads thread state from LangGraph for the debug endpoint.
type StateClient interface {
	GetThreadState(ctx context.Context, threadID string) (json.RawMessage, error)
}

// Server is the bridge's HTTP server.
type Server struct {
	cfg        *config.Config
	queue      *dispatch.Queue
	state      StateClient
	httpServer *http.Server
}

// New creates the server and its routes. The queue is the only bridge to the
// processing side.
func New(cfg *config.Config, queue *dispatch.Queue, state StateClient) *Server {
	s := &Server{
		cfg:   cfg,
		queue: queue,
		state: state,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/events/slack", s.handleSlackEvents)
	r.Post("/callbacks/{thread_id}", s.handleCallback)
	r.Get("/threads/{thread_id}/state", s.handleThreadState)
	r.Get("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("server: listening on %s", s.cfg.HTTPAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and drains in-flight handlers.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleSlackEvents receives the signed Slack event envelope. It must
// acknowledge within Slack's timeout regardless of backend state, so
// qualifying events are enqueued and the response returns immediately.
func (s *Server) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	if !handler.ValidateSlackRequest(
		body,
		r.Header.Get("X-Slack-Request-Timestamp"),
		r.Header.Get("X-Slack-Signature"),
		s.cfg.SlackSigningSecret,
	) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		return
	}

	var envelope models.EventCallback
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("events: malformed envelope: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event format"})
		return
	}

	switch envelope.Type {
	case models.EnvelopeURLVerification:
		writeJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
		return

	case models.EnvelopeEventCallback:
		s.dispatchEvent(&envelope.Event)
	default:
		log.Printf("events: ignoring envelope type %q", envelope.Type)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// dispatchEvent classifies a message event and enqueues it when it
// qualifies. Mention notifications (app_mention) are acknowledged without
// enqueueing: the accompanying message event carries the dispatch.
func (s *Server) dispatchEvent(event *models.MessageEvent) {
	switch event.Type {
	case "message":
		if !handler.ShouldDispatch(event, s.cfg.SlackBotUserID) {
			log.Printf("events: skipping message in %s (not addressed to the bot)", event.Channel)
			return
		}
		task := models.NewSlackMessageTask(event)
		s.queue.Enqueue(task)
		log.Printf("events: enqueued %s for channel %s", task.ID, event.Channel)
	case "app_mention":
		// ack only
	default:
		log.Printf("events: ignoring event type %q", event.Type)
	}
}

// handleCallback receives LangGraph's webhook push once a run completes. The
// path segment is for routing and logging only; the authoritative
// correlation key is the body's thread_id.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	pathThreadID := chi.URLParam(r, "thread_id")

	var payload models.CallbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("callbacks: malformed payload for %s: %v", pathThreadID, err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid callback payload"})
		return
	}

	task := models.NewCallbackTask(&payload)
	s.queue.Enqueue(task)
	log.Printf("callbacks: enqueued %s for %s/%s", task.ID, pathThreadID, payload.ThreadID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleThreadState proxies LangGraph's thread state for operator debugging.
func (s *Server) handleThreadState(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "thread_id")

	state, err := s.state.GetThreadState(r.Context(), threadID)
	if err != nil {
		log.Printf("threads: state fetch for %s failed: %v", threadID, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "thread state unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(state)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"pending": s.queue.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

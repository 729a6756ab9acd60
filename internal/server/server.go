// Package server exposes the bot over HTTP: a liveness endpoint for uptime
// monitors and, in webhook mode, the endpoint Telegram posts updates to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

const (
	maxUpdateSize   = 1 << 20
	shutdownTimeout = 5 * time.Second

	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// UpdateProcessor dispatches one decoded update to the bot's handlers.
// *bot.Bot from go-telegram/bot satisfies it.
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, upd *models.Update)
}

// Options configures a Server. The webhook route is only served when
// Processor is set.
type Options struct {
	Port            int
	LivenessMessage string

	WebhookPath   string // "/<bot-token>"
	WebhookSecret string
	Processor     UpdateProcessor
}

// Server is the HTTP listener of the bot.
type Server struct {
	opts    Options
	log     *slog.Logger
	handler http.Handler
}

// New creates a Server and its routes.
func New(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		opts: opts,
		log:  logger.With("component", "http_server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleLiveness)
	if opts.Processor != nil && opts.WebhookPath != "" {
		mux.HandleFunc("POST "+opts.WebhookPath, s.handleWebhook)
	}
	s.handler = mux
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(s.opts.Port)))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.opts.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", ln.Addr().String(), "webhook", s.opts.Processor != nil)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped.")
	return nil
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, s.opts.LivenessMessage)
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(statusResponse{Status: status})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := s.log.With("request_id", uuid.NewString())

	if s.opts.WebhookSecret != "" && r.Header.Get(secretTokenHeader) != s.opts.WebhookSecret {
		log.WarnContext(r.Context(), "Webhook request with invalid secret token", "remote_addr", r.RemoteAddr)
		writeStatus(w, http.StatusUnauthorized, "error")
		return
	}

	var update models.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateSize)).Decode(&update); err != nil {
		log.ErrorContext(r.Context(), "Webhook error: failed to decode update", "error", err)
		writeStatus(w, http.StatusInternalServerError, "error")
		return
	}

	// Handlers may outlive this request.
	if err := s.dispatch(context.WithoutCancel(r.Context()), &update); err != nil {
		log.ErrorContext(r.Context(), "Webhook error: failed to dispatch update", "error", err, "update_id", update.ID)
		writeStatus(w, http.StatusInternalServerError, "error")
		return
	}

	log.DebugContext(r.Context(), "Webhook update dispatched", "update_id", update.ID)
	writeStatus(w, http.StatusOK, "ok")
}

func (s *Server) dispatch(ctx context.Context, update *models.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing update: %v", r)
		}
	}()
	s.opts.Processor.ProcessUpdate(ctx, update)
	return nil
}

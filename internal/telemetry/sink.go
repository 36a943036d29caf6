// Package telemetry emits client-side events to the server's log store.
// Delivery is best-effort: every failure is swallowed and logged locally,
// never propagated into a primary user action.
package telemetry

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/logger"
)

// UserIDSource supplies the current user id for event attribution, or ""
// when no session is live. The session store implements it.
type UserIDSource interface {
	UserID() string
}

// Sink posts events to POST /logs/. Each process run carries a generated
// run id so server-side events from one session can be correlated.
type Sink struct {
	client  *api.Client
	log     logger.Logger
	users   UserIDSource
	runID   string
	version string
	enabled bool
}

// New creates a sink. A disabled sink still logs locally.
func New(client *api.Client, log logger.Logger, users UserIDSource, version string, enabled bool) *Sink {
	return &Sink{
		client:  client,
		log:     log,
		users:   users,
		runID:   uuid.NewString(),
		version: version,
		enabled: enabled,
	}
}

// RunID returns this process run's correlation id.
func (s *Sink) RunID() string { return s.runID }

// Info emits an informational event.
func (s *Sink) Info(message string, meta map[string]any) {
	s.emit("INFO", message, meta)
}

// Error emits an error event.
func (s *Sink) Error(message string, meta map[string]any) {
	s.emit("ERROR", message, meta)
}

func (s *Sink) emit(level, message string, meta map[string]any) {
	s.log.Info("telemetry", zap.String("level", level), zap.String("message", message))

	userID := ""
	if s.users != nil {
		userID = s.users.UserID()
	}
	// The server only accepts events from identified users, matching the
	// original service's contract.
	if !s.enabled || userID == "" {
		return
	}

	merged := map[string]any{
		"run_id":  s.runID,
		"version": s.version,
	}
	for k, v := range meta {
		merged[k] = v
	}

	entry := api.LogEntry{
		Level:     level,
		Message:   message,
		Source:    "client",
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Metadata:  merged,
	}

	go func() {
		if err := s.client.SaveLog(entry); err != nil {
			s.log.Warn("telemetry delivery failed", zap.Error(err))
		}
	}()
}

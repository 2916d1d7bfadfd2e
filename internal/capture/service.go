// Package capture implements idea capture with an offline fallback: an idea
// goes to the backend once, and if that cannot be confirmed it is appended
// to a local log instead.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aether-ai/aether/internal/backend"
	"github.com/aether-ai/aether/internal/models"
)

// OfflineResponse is returned to the caller when an idea was stored locally.
const OfflineResponse = "Idea stored locally (offline mode)"

// Kind tells where an accepted idea ended up.
type Kind string

const (
	KindRemote  Kind = "remote"
	KindOffline Kind = "offline"
)

// Reason records why an idea fell back to local storage.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonRejected    Reason = "rejected"
	ReasonUnreachable Reason = "unreachable"
)

// Outcome is the result of a successful Capture.
type Outcome struct {
	Kind     Kind
	Response string // backend body verbatim, or OfflineResponse
	Reason   Reason
	// StatusCode is the backend status for ReasonRejected.
	StatusCode int
	// Record is set for offline outcomes.
	Record *models.IdeaRecord
}

// Offline reports whether the idea was stored locally.
func (o Outcome) Offline() bool {
	return o.Kind == KindOffline
}

// Submitter sends an idea to the backend.
type Submitter interface {
	SubmitIdea(ctx context.Context, content string) (string, error)
}

// Appender durably appends an idea locally.
type Appender interface {
	Append(content string) (models.IdeaRecord, error)
}

// Observer is notified of every capture result.
type Observer interface {
	ObserveCapture(outcome Outcome, err error)
}

// Option configures a Service.
type Option func(*Service)

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, o)
	}
}

// Service composes the remote gateway and the local store.
type Service struct {
	remote    Submitter
	local     Appender
	observers []Observer
}

// NewService creates a capture service.
func NewService(remote Submitter, local Appender, opts ...Option) *Service {
	s := &Service{remote: remote, local: local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture submits content to the backend, falling back to the local store
// when the backend rejects it or cannot be reached. Content is taken as is,
// blank included. The only error is a failed local append.
//
// Caller cancellation does not abort the remote attempt; it is bounded by
// the client timeout only.
func (s *Service) Capture(ctx context.Context, content string) (Outcome, error) {
	outcome, err := s.capture(context.WithoutCancel(ctx), content)
	for _, o := range s.observers {
		o.ObserveCapture(outcome, err)
	}
	return outcome, err
}

func (s *Service) capture(ctx context.Context, content string) (Outcome, error) {
	body, err := s.remote.SubmitIdea(ctx, content)
	if err == nil {
		log.Printf("[capture] Idea captured remotely")
		return Outcome{Kind: KindRemote, Response: body}, nil
	}

	outcome := Outcome{Kind: KindOffline, Response: OfflineResponse, Reason: ReasonUnreachable}
	var rejected *backend.RejectedError
	if errors.As(err, &rejected) {
		outcome.Reason = ReasonRejected
		outcome.StatusCode = rejected.StatusCode
	}
	log.Printf("[capture] Remote capture failed (%s): %v; storing idea locally", outcome.Reason, err)

	record, err := s.local.Append(content)
	if err != nil {
		log.Printf("[capture] Local capture failed: %v", err)
		return Outcome{}, fmt.Errorf("store idea locally: %w", err)
	}
	outcome.Record = &record
	log.Printf("[capture] Idea stored locally for offline sync")
	return outcome, nil
}

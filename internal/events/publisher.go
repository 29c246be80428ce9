package events

import (
	"context"
	"time"
)

// Auth event types published to the platform bus.
const (
	TypeLoginSucceeded = "com.debrief.auth.login.succeeded"
	TypeAccountLocked  = "com.debrief.auth.account.locked"
	TypeRefreshReuse   = "com.debrief.auth.refresh.reuse_detected"
	TypeLogout         = "com.debrief.auth.logout"
	TypeMfaEnabled     = "com.debrief.auth.mfa.enabled"
	TypeMfaDisabled    = "com.debrief.auth.mfa.disabled"
)

// CloudEvent is the CloudEvents v1.0 envelope used on the bus.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// Publisher sends auth events. Publishing is best effort: callers log
// failures and never fail the request over them.
type Publisher interface {
	Publish(ctx context.Context, eventType string, subject string, data interface{}) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher creates a Publisher that drops every event. Used when
// no brokers are configured.
func NewNoopPublisher() Publisher {
	return &noopPublisher{}
}

func (p *noopPublisher) Publish(_ context.Context, _ string, _ string, _ interface{}) error {
	return nil
}

func (p *noopPublisher) Close() error { return nil }

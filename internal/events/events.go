// Package events is the process-wide broadcast channel: a fan-out broker for
// directory events plus the SSE transport observers connect to. Delivery is
// best-effort and live-only; there is no backlog, replay, or cross-subject
// ordering.
package events

import "time"

// Kind names an event on the wire. Observers switch on it.
type Kind string

const (
	KindUserCreated Kind = "userCreated"
	KindEmailStatus Kind = "emailStatus"
)

// Event is the envelope fanned out to observers. Payload must be JSON
// marshalable.
type Event struct {
	Kind    Kind
	Payload any
}

// UserCreated is broadcast once per successfully created record.
type UserCreated struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// EmailPhase is the lifecycle phase of a welcome-email task.
type EmailPhase string

const (
	EmailPending EmailPhase = "pending"
	EmailSuccess EmailPhase = "success"
	EmailFailed  EmailPhase = "failed"
)

// EmailStatus reports a welcome-email phase change. Observers correlate by
// email; there is no request correlation id.
type EmailStatus struct {
	Status    EmailPhase `json:"status"`
	UserEmail string     `json:"userEmail"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewUserCreated wraps a record payload in its envelope.
func NewUserCreated(id, name, email, role string) Event {
	return Event{Kind: KindUserCreated, Payload: UserCreated{ID: id, Name: name, Email: email, Role: role}}
}

// NewEmailStatus wraps a phase change in its envelope.
func NewEmailStatus(phase EmailPhase, userEmail string, at time.Time) Event {
	return Event{Kind: KindEmailStatus, Payload: EmailStatus{Status: phase, UserEmail: userEmail, Timestamp: at}}
}

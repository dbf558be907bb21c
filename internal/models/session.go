package models

import "time"

// SessionStatus tracks the lifecycle of an interview session.
// Transitions: created -> live -> ended | canceled. Terminal states never reverse.
type SessionStatus string

const (
	StatusCreated  SessionStatus = "created"
	StatusLive     SessionStatus = "live"
	StatusEnded    SessionStatus = "ended"
	StatusCanceled SessionStatus = "canceled"
)

// ConsentFlags records which capture channels the candidate agreed to.
type ConsentFlags struct {
	Audio     bool `json:"audio" yaml:"audio"`
	Video     bool `json:"video" yaml:"video"`
	Screen    bool `json:"screen" yaml:"screen"`
	Telemetry bool `json:"telemetry" yaml:"telemetry"`
}

// Session is the scoping unit for all ingested telemetry and derived state.
type Session struct {
	ID          string        `json:"id"`
	CandidateID string        `json:"candidateId"`
	CompanyID   string        `json:"companyId"`
	Role        string        `json:"role,omitempty"`
	Status      SessionStatus `json:"status"`
	Consent     ConsentFlags  `json:"consent"`
	StartedAt   time.Time     `json:"startedAt"`
	EndedAt     *time.Time    `json:"endedAt,omitempty"`
}

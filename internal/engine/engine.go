// Package engine exposes the scoring engine's operation surface: session
// lifecycle, telemetry ingestion and score/report reads. Every successful
// ingestion synchronously recomputes the session's fraud score and appends a
// snapshot before acknowledging, so a read immediately after an ingest
// reflects that ingest.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/metrics"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/store"
)

// ErrSessionNotFound mirrors the store sentinel for callers that only import
// the engine.
var ErrSessionNotFound = store.ErrSessionNotFound

// Engine is the signal-fusion scoring engine.
type Engine struct {
	store *store.Store
	cfg   metrics.ScoringConfig
	langs models.LanguageTable
	log   *zap.Logger
	now   func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the scoring clock. Used by tests and replays to keep
// time-windowed rules reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLanguageTable overrides the stylometry pattern table.
func WithLanguageTable(table models.LanguageTable) Option {
	return func(e *Engine) { e.langs = table }
}

// New creates an engine with the given scoring constants.
func New(log *zap.Logger, cfg metrics.ScoringConfig, opts ...Option) *Engine {
	e := &Engine{
		store: store.New(log),
		cfg:   cfg,
		langs: models.DefaultLanguageTable(),
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report bundles a session's record, full score history, raw logs and the
// latest behavioral signals.
type Report struct {
	Session       models.Session           `json:"session"`
	Scores        []models.FraudScore      `json:"scores"`
	Transcript    []models.TranscriptChunk `json:"transcript"`
	ScreenEvents  []models.ScreenEvent     `json:"screenEvents"`
	CompileEvents []models.CompileRunEvent `json:"compileEvents"`
	Behavior      models.BehaviorSignals   `json:"behavior"`
}

// StartSession allocates a new live session.
func (e *Engine) StartSession(candidateID, companyID, role string, consent models.ConsentFlags) models.Session {
	return e.store.Start(candidateID, companyID, role, consent)
}

// EndSession moves a session to ended. Returns ErrSessionNotFound for an
// unknown id; ending a terminal session is an error.
func (e *Engine) EndSession(sessionID string) error {
	return e.store.End(sessionID)
}

// CancelSession moves a session to the canceled terminal state.
func (e *Engine) CancelSession(sessionID string) error {
	return e.store.Cancel(sessionID)
}

// GetSession returns the session record.
func (e *Engine) GetSession(sessionID string) (models.Session, error) {
	return e.store.Get(sessionID)
}

// ListSessions returns all sessions.
func (e *Engine) ListSessions() []models.Session {
	return e.store.List()
}

// ClearSession purges a session and all of its raw and derived state.
func (e *Engine) ClearSession(sessionID string) error {
	return e.store.Clear(sessionID)
}

// ingest appends via apply, rescores and appends the snapshot, all under the
// session lock. Unknown sessions are materialized rather than rejected so
// telemetry racing the lifecycle calls is never dropped.
func (e *Engine) ingest(sessionID string, apply func(*store.State)) (models.FraudScore, error) {
	var snapshot models.FraudScore
	err := e.store.WithSession(sessionID, true, func(st *store.State) error {
		apply(st)
		snapshot = e.rescore(st)
		st.Scores = append(st.Scores, snapshot)
		return nil
	})
	if err != nil {
		return models.FraudScore{}, err
	}
	e.log.Debug("session rescored",
		zap.String("sessionId", sessionID),
		zap.Float64("score", snapshot.Score),
		zap.String("level", string(snapshot.Level)))
	return snapshot, nil
}

// rescore recomputes every modality verdict from the session's accumulated
// logs and fuses them. Caller holds the session lock.
func (e *Engine) rescore(st *store.State) models.FraudScore {
	profile := metrics.BuildTypingProfile(st.Session.ID, st.Keystrokes, e.cfg.Keystroke)
	typing := metrics.DetectTypingAnomalies(profile, e.cfg.Keystroke)

	// The most suspicious code submission governs; a later clean sample must
	// not launder an earlier flagged one.
	var code models.AnomalyVerdict
	for _, features := range st.CodeAnalyses {
		if verdict := metrics.DetectCodeAnomalies(features, e.cfg.Stylometry); verdict.Confidence > code.Confidence {
			code = verdict
		}
	}

	now := e.now()
	behavior := metrics.DeriveBehaviorSignals(
		st.Transcript, st.ScreenEvents, st.CompileEvents, st.Keystrokes,
		float64(now.UnixMilli()), e.cfg.Behavior)

	return metrics.FuseScore(st.Session.ID, typing, code, behavior, now, e.cfg.Fusion)
}

// IngestTranscript appends a transcript chunk and rescores.
func (e *Engine) IngestTranscript(sessionID string, chunk models.TranscriptChunk) (models.FraudScore, error) {
	chunk.SessionID = sessionID
	return e.ingest(sessionID, func(st *store.State) {
		st.Transcript = append(st.Transcript, chunk)
	})
}

// IngestScreenEvent appends a screen event and rescores.
func (e *Engine) IngestScreenEvent(sessionID string, event models.ScreenEvent) (models.FraudScore, error) {
	event.SessionID = sessionID
	return e.ingest(sessionID, func(st *store.State) {
		st.ScreenEvents = append(st.ScreenEvents, event)
	})
}

// IngestCompileEvent appends a compile/run/test event and rescores.
func (e *Engine) IngestCompileEvent(sessionID string, event models.CompileRunEvent) (models.FraudScore, error) {
	event.SessionID = sessionID
	return e.ingest(sessionID, func(st *store.State) {
		st.CompileEvents = append(st.CompileEvents, event)
	})
}

// IngestKeystroke appends a raw keystroke and rescores.
func (e *Engine) IngestKeystroke(sessionID string, event models.KeystrokeEvent) (models.FraudScore, error) {
	event.SessionID = sessionID
	return e.ingest(sessionID, func(st *store.State) {
		st.Keystrokes = append(st.Keystrokes, event)
	})
}

// SubmitCodeSample records a code submission, analyzes it once and rescores.
func (e *Engine) SubmitCodeSample(sessionID, code, language string) (models.FraudScore, error) {
	sample := models.CodeSample{
		SessionID:   sessionID,
		Code:        code,
		Language:    language,
		SubmittedAt: e.now(),
	}
	features := metrics.AnalyzeCode(code, language, e.langs, e.cfg.Stylometry)
	return e.ingest(sessionID, func(st *store.State) {
		st.CodeSamples = append(st.CodeSamples, sample)
		st.CodeAnalyses = append(st.CodeAnalyses, features)
	})
}

// AnalyzeCode derives stylometry features from a single text. Pure function;
// no session state is touched.
func (e *Engine) AnalyzeCode(code, language string) models.CodeStylometryFeatures {
	return metrics.AnalyzeCode(code, language, e.langs, e.cfg.Stylometry)
}

// GenerateTypingProfile recomputes the typing profile from the session's raw
// keystroke log. Unknown sessions yield the zero profile; this never fails.
func (e *Engine) GenerateTypingProfile(sessionID string) models.TypingProfile {
	var profile models.TypingProfile
	err := e.store.WithSession(sessionID, false, func(st *store.State) error {
		profile = metrics.BuildTypingProfile(sessionID, st.Keystrokes, e.cfg.Keystroke)
		return nil
	})
	if err != nil {
		return metrics.BuildTypingProfile(sessionID, nil, e.cfg.Keystroke)
	}
	return profile
}

// GetLatestScore returns the newest score snapshot, or a zero-score low-risk
// default when the session has none (or does not exist).
func (e *Engine) GetLatestScore(sessionID string) models.FraudScore {
	var latest models.FraudScore
	found := false
	_ = e.store.WithSession(sessionID, false, func(st *store.State) error {
		if n := len(st.Scores); n > 0 {
			latest = st.Scores[n-1]
			found = true
		}
		return nil
	})
	if !found {
		return models.FraudScore{
			SessionID: sessionID,
			Score:     0,
			Level:     models.RiskLow,
			Reasons:   []models.Reason{},
			Timestamp: e.now(),
		}
	}
	return latest
}

// GetReport returns the session record, the full score history, all raw logs
// and the current behavioral signals. Returns ErrSessionNotFound for an
// unknown id.
func (e *Engine) GetReport(sessionID string) (Report, error) {
	var report Report
	err := e.store.WithSession(sessionID, false, func(st *store.State) error {
		report = Report{
			Session:       st.Session,
			Scores:        append([]models.FraudScore(nil), st.Scores...),
			Transcript:    append([]models.TranscriptChunk(nil), st.Transcript...),
			ScreenEvents:  append([]models.ScreenEvent(nil), st.ScreenEvents...),
			CompileEvents: append([]models.CompileRunEvent(nil), st.CompileEvents...),
			Behavior: metrics.DeriveBehaviorSignals(
				st.Transcript, st.ScreenEvents, st.CompileEvents, st.Keystrokes,
				float64(e.now().UnixMilli()), e.cfg.Behavior),
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

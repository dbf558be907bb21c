// Package store holds all per-session mutable state in a sharded in-memory
// keyed store. Each session's state is serialized behind its own mutex;
// sessions on different shards never contend.
package store

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

// ErrSessionNotFound is returned by session-referencing operations on an
// unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionTerminal is returned when a lifecycle transition is attempted on
// an ended or canceled session.
var ErrSessionTerminal = errors.New("session already in a terminal state")

const shardCount = 16

// State is everything the engine keeps for one session: the session record,
// the append-only raw logs, derived code analyses and the score history.
// Callers only touch it inside WithSession, which holds the session lock.
type State struct {
	mu sync.Mutex

	Session       models.Session
	Transcript    []models.TranscriptChunk
	ScreenEvents  []models.ScreenEvent
	CompileEvents []models.CompileRunEvent
	Keystrokes    []models.KeystrokeEvent
	CodeSamples   []models.CodeSample
	CodeAnalyses  []models.CodeStylometryFeatures
	Scores        []models.FraudScore
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// Store is the concurrent keyed session store.
type Store struct {
	shards [shardCount]shard
	seq    atomic.Uint64
	log    *zap.Logger
}

// New creates an empty store.
func New(log *zap.Logger) *Store {
	s := &Store{log: log}
	for i := range s.shards {
		s.shards[i].sessions = make(map[string]*State)
	}
	return s
}

func (s *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.shards[h.Sum32()%shardCount]
}

// newSessionID combines a process-monotonic counter with random bits so that
// collisions are negligible even across racing starts.
func (s *Store) newSessionID() string {
	return fmt.Sprintf("sess-%d-%s", s.seq.Add(1), uuid.NewString()[:8])
}

// Start allocates a new live session with empty logs for every modality.
func (s *Store) Start(candidateID, companyID, role string, consent models.ConsentFlags) models.Session {
	session := models.Session{
		ID:          s.newSessionID(),
		CandidateID: candidateID,
		CompanyID:   companyID,
		Role:        role,
		Status:      models.StatusLive,
		Consent:     consent,
		StartedAt:   time.Now(),
	}

	sh := s.shardFor(session.ID)
	sh.mu.Lock()
	sh.sessions[session.ID] = &State{Session: session}
	sh.mu.Unlock()

	s.log.Info("session started",
		zap.String("sessionId", session.ID),
		zap.String("candidateId", candidateID),
		zap.String("companyId", companyID))
	return session
}

// materialize returns the state for id, creating an empty live session when
// telemetry arrives before (or after) the lifecycle calls. Ingestion is
// deliberately permissive so racing telemetry is never dropped.
func (s *Store) materialize(id string) *State {
	sh := s.shardFor(id)

	sh.mu.RLock()
	state, ok := sh.sessions[id]
	sh.mu.RUnlock()
	if ok {
		return state
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if state, ok = sh.sessions[id]; ok {
		return state
	}
	state = &State{Session: models.Session{
		ID:        id,
		Status:    models.StatusLive,
		StartedAt: time.Now(),
	}}
	sh.sessions[id] = state
	s.log.Debug("auto-materialized session for ingestion", zap.String("sessionId", id))
	return state
}

func (s *Store) lookup(id string) (*State, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	state, ok := sh.sessions[id]
	sh.mu.RUnlock()
	return state, ok
}

// WithSession runs fn with the session's lock held. When create is true an
// unknown id is auto-materialized; otherwise ErrSessionNotFound is returned.
func (s *Store) WithSession(id string, create bool, fn func(*State) error) error {
	var state *State
	if create {
		state = s.materialize(id)
	} else {
		var ok bool
		if state, ok = s.lookup(id); !ok {
			return ErrSessionNotFound
		}
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return fn(state)
}

// End moves a live session to ended. Terminal states never transition.
func (s *Store) End(id string) error {
	return s.WithSession(id, false, func(state *State) error {
		if state.Session.Status == models.StatusEnded || state.Session.Status == models.StatusCanceled {
			return ErrSessionTerminal
		}
		now := time.Now()
		state.Session.Status = models.StatusEnded
		state.Session.EndedAt = &now
		s.log.Info("session ended", zap.String("sessionId", id))
		return nil
	})
}

// Cancel moves a session to the canceled terminal state. Not exercised by the
// ingestion path; exposed for lifecycle callers.
func (s *Store) Cancel(id string) error {
	return s.WithSession(id, false, func(state *State) error {
		if state.Session.Status == models.StatusEnded || state.Session.Status == models.StatusCanceled {
			return ErrSessionTerminal
		}
		now := time.Now()
		state.Session.Status = models.StatusCanceled
		state.Session.EndedAt = &now
		s.log.Info("session canceled", zap.String("sessionId", id))
		return nil
	})
}

// Get returns a copy of the session record.
func (s *Store) Get(id string) (models.Session, error) {
	state, ok := s.lookup(id)
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.Session, nil
}

// List returns a copy of every session record.
func (s *Store) List() []models.Session {
	sessions := make([]models.Session, 0)
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		states := make([]*State, 0, len(sh.sessions))
		for _, state := range sh.sessions {
			states = append(states, state)
		}
		sh.mu.RUnlock()
		for _, state := range states {
			state.mu.Lock()
			sessions = append(sessions, state.Session)
			state.mu.Unlock()
		}
	}
	return sessions
}

// Clear purges the session and all raw and derived state. Removal from the
// shard map is atomic, so concurrent ingestion either completed against the
// old state or re-materializes a fresh session; it never sees a partial purge.
func (s *Store) Clear(id string) error {
	sh := s.shardFor(id)
	sh.mu.Lock()
	_, ok := sh.sessions[id]
	delete(sh.sessions, id)
	sh.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.log.Info("session cleared", zap.String("sessionId", id))
	return nil
}

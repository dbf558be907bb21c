package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/metrics"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return New(zap.NewNop(), metrics.DefaultScoringConfig(), WithClock(func() time.Time { return fixed }))
}

func TestIngestIsReadYourWrite(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{Telemetry: true})

	snapshot, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{
		Timestamp: 1000, Type: models.EventPaste,
	})
	require.NoError(t, err)

	latest := eng.GetLatestScore(session.ID)
	assert.Equal(t, snapshot, latest)

	// No intervening ingestion: identical reads.
	assert.Equal(t, latest, eng.GetLatestScore(session.ID))
}

func TestGetLatestScore_DefaultWhenEmpty(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})

	score := eng.GetLatestScore(session.ID)
	assert.Zero(t, score.Score)
	assert.Equal(t, models.RiskLow, score.Level)
	assert.Empty(t, score.Reasons)

	// Unknown sessions also read as zero-risk rather than failing.
	unknown := eng.GetLatestScore("ghost")
	assert.Zero(t, unknown.Score)
	assert.Equal(t, models.RiskLow, unknown.Level)
}

func TestEveryIngestAppendsASnapshot(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})

	for i := 0; i < 3; i++ {
		_, err := eng.IngestCompileEvent(session.ID, models.CompileRunEvent{
			Timestamp: float64(1000 * (i + 1)), Action: models.ActionRun,
		})
		require.NoError(t, err)
	}
	_, err := eng.IngestTranscript(session.ID, models.TranscriptChunk{
		Sequence: 1, Text: "hello", StartMs: 0, EndMs: 500,
	})
	require.NoError(t, err)

	report, err := eng.GetReport(session.ID)
	require.NoError(t, err)
	assert.Len(t, report.Scores, 4)
	assert.Len(t, report.CompileEvents, 3)
	assert.Len(t, report.Transcript, 1)
}

func TestBehavioralScoringScenario(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})

	for i := 0; i < 3; i++ {
		_, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{
			Timestamp: float64(1000 * (i + 1)), Type: models.EventPaste,
		})
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{
			Timestamp: float64(10_000 * (i + 1)), Type: models.EventWindowSwitch,
		})
		require.NoError(t, err)
	}
	// Stretch the span past the low-compile threshold.
	snapshot, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{
		Timestamp: 401_000, Type: models.EventFocus,
	})
	require.NoError(t, err)

	assert.Equal(t, 35.0, snapshot.Score)
	require.Len(t, snapshot.Reasons, 3)
	assert.Equal(t, "paste_bursts", snapshot.Reasons[0].Code)
	assert.Equal(t, "tab_switches", snapshot.Reasons[1].Code)
	assert.Equal(t, "low_compile_activity", snapshot.Reasons[2].Code)
}

func TestKeystrokeScoringScenario(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})

	// 10 down/up pairs with identical 80ms holds and 120ms inter-press gaps.
	var snapshot models.FraudScore
	var err error
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	t0 := 100_000.0
	for i, key := range keys {
		base := t0 + float64(i)*120
		if snapshot, err = eng.IngestKeystroke(session.ID, models.KeystrokeEvent{
			Timestamp: base, Key: key, Action: models.KeyDown,
		}); err != nil {
			t.Fatal(err)
		}
		if snapshot, err = eng.IngestKeystroke(session.ID, models.KeystrokeEvent{
			Timestamp: base + 80, Key: key, Action: models.KeyUp,
		}); err != nil {
			t.Fatal(err)
		}
	}

	require.NotEmpty(t, snapshot.Reasons)
	assert.Equal(t, "keystroke_anomaly", snapshot.Reasons[0].Code)
	assert.Contains(t, snapshot.Reasons[0].Message, "uniform timing")
	assert.Greater(t, snapshot.Score, 0.0)

	profile := eng.GenerateTypingProfile(session.ID)
	assert.InDelta(t, 0, profile.IntervalVariance, 1e-9)
	assert.Len(t, profile.PauseDurations, 9)
}

func TestCodeSubmissionScoring(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})

	code := `const best = a > b ? a : b;
function alpha(n) {
    return n + 1;
}
function beta(n) {
    return n + 2;
}
function gamma(n) {
    return n + 3;
}`
	snapshot, err := eng.SubmitCodeSample(session.ID, code, "javascript")
	require.NoError(t, err)

	require.NotEmpty(t, snapshot.Reasons)
	assert.Equal(t, "code_stylometry", snapshot.Reasons[0].Code)
	// Anomaly confidence 0.7 at weight 25.
	assert.InDelta(t, 17.5, snapshot.Reasons[0].Weight, 0.01)

	// A later clean sample does not lower the verdict.
	clean, err := eng.SubmitCodeSample(session.ID, "// well documented\n// and boring\nx = 1\n", "javascript")
	require.NoError(t, err)
	require.NotEmpty(t, clean.Reasons)
	assert.InDelta(t, 17.5, clean.Reasons[0].Weight, 0.01)
}

func TestIngestOnUnknownSessionMaterializes(t *testing.T) {
	eng := newTestEngine(t)

	snapshot, err := eng.IngestKeystroke("not-started", models.KeystrokeEvent{
		Timestamp: 1000, Key: "a", Action: models.KeyDown,
	})
	require.NoError(t, err)
	assert.Equal(t, "not-started", snapshot.SessionID)

	session, err := eng.GetSession("not-started")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, session.Status)
}

func TestClearSessionErasesEverything(t *testing.T) {
	eng := newTestEngine(t)
	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})

	_, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{Timestamp: 1, Type: models.EventPaste})
	require.NoError(t, err)

	require.NoError(t, eng.ClearSession(session.ID))

	_, err = eng.GetReport(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, eng.EndSession(session.ID), ErrSessionNotFound)
	assert.Zero(t, eng.GetLatestScore(session.ID).Score)

	// Fresh ingestion starts a clean history.
	snapshot, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{Timestamp: 2, Type: models.EventFocus})
	require.NoError(t, err)
	report, err := eng.GetReport(session.ID)
	require.NoError(t, err)
	assert.Len(t, report.Scores, 1)
	assert.Equal(t, snapshot, report.Scores[0])
}

func TestEndSessionLifecycle(t *testing.T) {
	eng := newTestEngine(t)
	assert.ErrorIs(t, eng.EndSession("ghost"), ErrSessionNotFound)

	session := eng.StartSession("cand-1", "co-1", "", models.ConsentFlags{})
	require.NoError(t, eng.EndSession(session.ID))

	got, err := eng.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnded, got.Status)
	assert.Error(t, eng.EndSession(session.ID))
}

func TestConcurrentIngestionAcrossSessions(t *testing.T) {
	eng := newTestEngine(t)

	const sessions = 4
	const events = 50

	ids := make([]string, sessions)
	for i := range ids {
		ids[i] = eng.StartSession("cand", "co", "", models.ConsentFlags{}).ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < events; i++ {
				_, err := eng.IngestScreenEvent(id, models.ScreenEvent{
					Timestamp: float64(i), Type: models.EventTabBlur,
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		report, err := eng.GetReport(id)
		require.NoError(t, err)
		assert.Len(t, report.Scores, events)
		assert.Equal(t, events, report.Behavior.TabSwitches)
	}
}

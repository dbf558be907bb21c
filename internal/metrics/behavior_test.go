package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

func screenEv(t float64, typ models.ScreenEventType, meta map[string]any) models.ScreenEvent {
	return models.ScreenEvent{Timestamp: t, Type: typ, Meta: meta}
}

func TestDeriveBehaviorSignals_EmptyLogs(t *testing.T) {
	signals := DeriveBehaviorSignals(nil, nil, nil, nil, 1_000_000, DefaultBehaviorConfig())

	assert.Zero(t, signals.PasteBursts)
	assert.Zero(t, signals.TabSwitches)
	assert.Zero(t, signals.CompileCount)
	assert.Zero(t, signals.SessionDurationMs)
	assert.False(t, signals.SuspiciousTiming)
	assert.False(t, signals.ApplicationSwitching)
}

func TestDeriveBehaviorSignals_Counts(t *testing.T) {
	screen := []models.ScreenEvent{
		screenEv(1000, models.EventPaste, nil),
		screenEv(2000, models.EventWindowSwitch, nil),
		screenEv(3000, models.EventTabBlur, nil),
		screenEv(4000, models.EventPaste, nil),
		screenEv(5000, models.EventFocus, nil),
	}
	compile := []models.CompileRunEvent{
		{Timestamp: 1500, Action: models.ActionCompile},
		{Timestamp: 2500, Action: models.ActionRun},
	}

	signals := DeriveBehaviorSignals(nil, screen, compile, nil, 1_000_000, DefaultBehaviorConfig())

	assert.Equal(t, 2, signals.PasteBursts)
	assert.Equal(t, 2, signals.TabSwitches)
	assert.Equal(t, 2, signals.CompileCount)
	assert.Equal(t, 4000.0, signals.SessionDurationMs)
}

func TestDeriveBehaviorSignals_SpanAcrossLogs(t *testing.T) {
	transcript := []models.TranscriptChunk{{StartMs: 500, EndMs: 4000}}
	keystrokes := []models.KeystrokeEvent{ks(90_000, "a", models.KeyDown)}

	signals := DeriveBehaviorSignals(transcript, nil, nil, keystrokes, 1_000_000, DefaultBehaviorConfig())
	assert.Equal(t, 89_500.0, signals.SessionDurationMs)
}

func TestDeriveBehaviorSignals_OversizedBatches(t *testing.T) {
	cfg := DefaultBehaviorConfig()

	small := DeriveBehaviorSignals(nil, []models.ScreenEvent{
		screenEv(1000, models.EventKeystrokeBatch, map[string]any{"size": 50}),
	}, nil, nil, 1_000_000, cfg)
	assert.False(t, small.OversizedKeyBatches)

	big := DeriveBehaviorSignals(nil, []models.ScreenEvent{
		screenEv(1000, models.EventKeystrokeBatch, map[string]any{"size": float64(51)}),
	}, nil, nil, 1_000_000, cfg)
	assert.True(t, big.OversizedKeyBatches)
}

func TestDeriveBehaviorSignals_MouseAnomalyPatterns(t *testing.T) {
	cfg := DefaultBehaviorConfig()

	flagged := DeriveBehaviorSignals(nil, []models.ScreenEvent{
		screenEv(1000, models.EventMouseAnomaly, map[string]any{"pattern": "linear_path"}),
	}, nil, nil, 1_000_000, cfg)
	assert.True(t, flagged.MouseAnomaly)

	unknown := DeriveBehaviorSignals(nil, []models.ScreenEvent{
		screenEv(1000, models.EventMouseAnomaly, map[string]any{"pattern": "fidgeting"}),
	}, nil, nil, 1_000_000, cfg)
	assert.False(t, unknown.MouseAnomaly)
}

func TestDeriveBehaviorSignals_ApplicationSwitchWindow(t *testing.T) {
	cfg := DefaultBehaviorConfig()
	now := 100_000.0

	recent := make([]models.ScreenEvent, 0, 5)
	for i := 0; i < 5; i++ {
		recent = append(recent, screenEv(now-float64(i*1000), models.EventAppSwitch, nil))
	}
	signals := DeriveBehaviorSignals(nil, recent, nil, nil, now, cfg)
	assert.True(t, signals.ApplicationSwitching)

	// Same events scored two minutes later fall outside the window.
	signals = DeriveBehaviorSignals(nil, recent, nil, nil, now+120_000, cfg)
	assert.False(t, signals.ApplicationSwitching)
}

func TestDeriveBehaviorSignals_SuspiciousTiming(t *testing.T) {
	cfg := DefaultBehaviorConfig()

	// 25 gaps: 8 of 1000ms among 17 of 1ms. Mean ~321ms, so the big gaps
	// exceed 3x the mean and make up 32% of all gaps.
	transcript := make([]models.TranscriptChunk, 0, 26)
	cursor := 0.0
	transcript = append(transcript, models.TranscriptChunk{StartMs: cursor, EndMs: cursor + 100})
	cursor += 100
	for i := 0; i < 25; i++ {
		gap := 1.0
		if i%3 == 0 && i < 24 {
			gap = 1000.0
		}
		transcript = append(transcript, models.TranscriptChunk{StartMs: cursor + gap, EndMs: cursor + gap + 100})
		cursor += gap + 100
	}

	signals := DeriveBehaviorSignals(transcript, nil, nil, nil, 1_000_000, cfg)
	assert.True(t, signals.SuspiciousTiming)

	// Perfectly even gaps are not suspicious.
	even := []models.TranscriptChunk{
		{StartMs: 0, EndMs: 100},
		{StartMs: 200, EndMs: 300},
		{StartMs: 400, EndMs: 500},
	}
	signals = DeriveBehaviorSignals(even, nil, nil, nil, 1_000_000, cfg)
	assert.False(t, signals.SuspiciousTiming)
}

func TestDeriveBehaviorSignals_TranscriptLength(t *testing.T) {
	transcript := []models.TranscriptChunk{
		{Text: "abcd", StartMs: 0, EndMs: 100},
		{Text: "abcdefgh", StartMs: 200, EndMs: 300},
	}
	signals := DeriveBehaviorSignals(transcript, nil, nil, nil, 1_000_000, DefaultBehaviorConfig())
	assert.Equal(t, 6.0, signals.AvgTranscriptLength)
}

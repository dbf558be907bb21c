package metrics

import (
	"strconv"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

// suspiciousMousePatterns is the fixed set of pattern tags the capture client
// may attach to a screen event to flag automated pointer movement.
var suspiciousMousePatterns = map[string]bool{
	"linear_path":       true,
	"constant_velocity": true,
	"teleport":          true,
	"no_jitter":         true,
	"grid_aligned":      true,
}

// metaNumber pulls a numeric value out of free-form event metadata, accepting
// the value types JSON decoding produces.
func metaNumber(meta map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := meta[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			if parsed, err := strconv.ParseFloat(n, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

// DeriveBehaviorSignals computes the coarse activity-pattern signals from a
// session's raw logs. Every signal tolerates empty logs; nowMs is the scoring
// time used for the application-switch window.
func DeriveBehaviorSignals(
	transcript []models.TranscriptChunk,
	screen []models.ScreenEvent,
	compile []models.CompileRunEvent,
	keystrokes []models.KeystrokeEvent,
	nowMs float64,
	cfg BehaviorConfig,
) models.BehaviorSignals {
	signals := models.BehaviorSignals{CompileCount: len(compile)}

	appSwitchCutoff := nowMs - cfg.AppSwitchWindowMs
	recentAppSwitches := 0
	for _, event := range screen {
		switch event.Type {
		case models.EventPaste:
			signals.PasteBursts++
		case models.EventWindowSwitch, models.EventTabBlur:
			signals.TabSwitches++
		case models.EventAppSwitch:
			if event.Timestamp >= appSwitchCutoff && event.Timestamp <= nowMs {
				recentAppSwitches++
			}
		case models.EventKeystrokeBatch:
			if size, ok := metaNumber(event.Meta, "size", "count"); ok && size > float64(cfg.BatchSizeLimit) {
				signals.OversizedKeyBatches = true
			}
		}
		if pattern, ok := event.Meta["pattern"].(string); ok && suspiciousMousePatterns[pattern] {
			signals.MouseAnomaly = true
		}
	}
	signals.ApplicationSwitching = recentAppSwitches >= cfg.AppSwitchMinCount

	if len(transcript) > 0 {
		var total int
		for _, chunk := range transcript {
			total += len(chunk.Text)
		}
		signals.AvgTranscriptLength = float64(total) / float64(len(transcript))
	}

	signals.SessionDurationMs = sessionSpan(transcript, screen, compile, keystrokes)
	signals.SuspiciousTiming = hasSuspiciousTiming(transcript, cfg)

	return signals
}

// sessionSpan is max(end timestamps) - min(start timestamps) across all logs.
// An empty log contributes no bound; no bounds at all yields 0.
func sessionSpan(
	transcript []models.TranscriptChunk,
	screen []models.ScreenEvent,
	compile []models.CompileRunEvent,
	keystrokes []models.KeystrokeEvent,
) float64 {
	var minT, maxT float64
	have := false

	observe := func(t float64) {
		if !have {
			minT, maxT = t, t
			have = true
			return
		}
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}

	for _, c := range transcript {
		observe(c.StartMs)
		observe(c.EndMs)
	}
	for _, e := range screen {
		observe(e.Timestamp)
	}
	for _, e := range compile {
		observe(e.Timestamp)
	}
	for _, e := range keystrokes {
		observe(e.Timestamp)
	}

	if !have {
		return 0
	}
	return maxT - minT
}

// hasSuspiciousTiming flags a transcript where more than the configured share
// of consecutive gaps exceed the configured multiple of the mean gap.
func hasSuspiciousTiming(transcript []models.TranscriptChunk, cfg BehaviorConfig) bool {
	if len(transcript) < 2 {
		return false
	}
	gaps := make([]float64, 0, len(transcript)-1)
	for i := 1; i < len(transcript); i++ {
		gap := transcript[i].StartMs - transcript[i-1].EndMs
		if gap < 0 {
			gap = 0
		}
		gaps = append(gaps, gap)
	}
	var sum float64
	for _, g := range gaps {
		sum += g
	}
	mean := sum / float64(len(gaps))
	if mean <= 0 {
		return false
	}
	outliers := 0
	for _, g := range gaps {
		if g > cfg.TimingGapFactor*mean {
			outliers++
		}
	}
	return float64(outliers)/float64(len(gaps)) > cfg.TimingGapShare
}

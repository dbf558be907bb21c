package metrics

import (
	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

// digraphKey joins a key pair into a stable map key.
func digraphKey(k1, k2 string) string { return k1 + "|" + k2 }

func trigraphKey(k1, k2, k3 string) string { return k1 + "|" + k2 + "|" + k3 }

// ExtractDigraphs derives release-to-press timing pairs from the raw
// keystroke log. Events are processed in arrival order. Latencies outside the
// configured band are treated as noise and dropped.
func ExtractDigraphs(events []models.KeystrokeEvent, cfg KeystrokeConfig) []models.Digraph {
	digraphs := make([]models.Digraph, 0)
	for i := 0; i+1 < len(events); i++ {
		first, second := events[i], events[i+1]
		if first.Action != models.KeyUp || second.Action != models.KeyDown {
			continue
		}
		latency := second.Timestamp - first.Timestamp
		if latency < cfg.MinLatencyMs || latency > cfg.MaxLatencyMs {
			continue
		}
		digraphs = append(digraphs, models.Digraph{
			Key1:      first.Key,
			Key2:      second.Key,
			Latency:   latency,
			Timestamp: first.Timestamp,
		})
	}
	return digraphs
}

// ExtractTrigraphs derives three-key timing features: three consecutive key
// presses whose two release-to-press legs each pass the latency band. In the
// raw stream that is the window [up(k1), down(k2), up(k2), down(k3)]; the
// middle release must belong to the middle press.
func ExtractTrigraphs(events []models.KeystrokeEvent, cfg KeystrokeConfig) []models.Trigraph {
	trigraphs := make([]models.Trigraph, 0)
	for i := 0; i+3 < len(events); i++ {
		e0, e1, e2, e3 := events[i], events[i+1], events[i+2], events[i+3]
		if e0.Action != models.KeyUp || e1.Action != models.KeyDown ||
			e2.Action != models.KeyUp || e3.Action != models.KeyDown {
			continue
		}
		if e2.Key != e1.Key {
			continue
		}
		latency1 := e1.Timestamp - e0.Timestamp
		latency2 := e3.Timestamp - e2.Timestamp
		if latency1 < cfg.MinLatencyMs || latency1 > cfg.MaxLatencyMs {
			continue
		}
		if latency2 < cfg.MinLatencyMs || latency2 > cfg.MaxLatencyMs {
			continue
		}
		trigraphs = append(trigraphs, models.Trigraph{
			Key1:      e0.Key,
			Key2:      e1.Key,
			Key3:      e3.Key,
			Latency1:  latency1,
			Latency2:  latency2,
			Timestamp: e0.Timestamp,
		})
	}
	return trigraphs
}

// BuildTypingProfile recomputes the per-session typing aggregate from the raw
// keystroke log. An empty log yields the zero profile; the call never fails.
func BuildTypingProfile(sessionID string, events []models.KeystrokeEvent, cfg KeystrokeConfig) models.TypingProfile {
	profile := models.TypingProfile{
		SessionID:         sessionID,
		DigraphLatencies:  make(map[string]float64),
		TrigraphLatencies: make(map[string]float64),
		KeyHoldDurations:  make(map[string]float64),
		PauseDurations:    make([]float64, 0),
		SampleSize:        len(events),
	}
	if len(events) == 0 {
		return profile
	}

	// Typing speed: single-character key presses over the session span,
	// scaled to characters per minute.
	contentKeys := 0
	for _, event := range events {
		if event.Action == models.KeyDown && len(event.Key) == 1 {
			contentKeys++
		}
	}
	span := events[len(events)-1].Timestamp - events[0].Timestamp
	if span > 0 && contentKeys > 0 {
		profile.AverageSpeed = float64(contentKeys) / span * 60_000
	}

	// Mean latency per digraph key pair and trigraph key triple.
	digraphSums := make(map[string]float64)
	digraphCounts := make(map[string]int)
	for _, d := range ExtractDigraphs(events, cfg) {
		k := digraphKey(d.Key1, d.Key2)
		digraphSums[k] += d.Latency
		digraphCounts[k]++
	}
	for k, sum := range digraphSums {
		profile.DigraphLatencies[k] = sum / float64(digraphCounts[k])
	}

	trigraphSums := make(map[string]float64)
	trigraphCounts := make(map[string]int)
	for _, t := range ExtractTrigraphs(events, cfg) {
		k := trigraphKey(t.Key1, t.Key2, t.Key3)
		trigraphSums[k] += t.Latency1 + t.Latency2
		trigraphCounts[k] += 2
	}
	for k, sum := range trigraphSums {
		profile.TrigraphLatencies[k] = sum / float64(trigraphCounts[k])
	}

	// Mean hold duration per key, pairing each press with its matching
	// release. Implausible durations are dropped as noise.
	holdSums := make(map[string]float64)
	holdCounts := make(map[string]int)
	keyDownAt := make(map[string]float64)
	for _, event := range events {
		switch event.Action {
		case models.KeyDown:
			keyDownAt[event.Key] = event.Timestamp
		case models.KeyUp:
			if downTime, ok := keyDownAt[event.Key]; ok {
				hold := event.Timestamp - downTime
				if hold > 0 && hold < cfg.MaxHoldMs {
					holdSums[event.Key] += hold
					holdCounts[event.Key]++
				}
				delete(keyDownAt, event.Key)
			}
		}
	}
	for k, sum := range holdSums {
		profile.KeyHoldDurations[k] = sum / float64(holdCounts[k])
	}

	// Inter-key-press intervals feed both the pause list and the variance.
	// Negative gaps are malformed input and are discarded.
	intervals := make([]float64, 0)
	lastPress := -1.0
	havePress := false
	for _, event := range events {
		if event.Action != models.KeyDown {
			continue
		}
		if havePress {
			gap := event.Timestamp - lastPress
			if gap >= 0 {
				intervals = append(intervals, gap)
				if gap > cfg.PauseThresholdMs {
					profile.PauseDurations = append(profile.PauseDurations, gap)
				}
			}
		}
		lastPress = event.Timestamp
		havePress = true
	}
	profile.IntervalVariance = populationVariance(intervals)

	return profile
}

// populationVariance computes the population variance of xs; empty input
// yields 0.
func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	return variance / float64(len(xs))
}

// DetectTypingAnomalies applies the fixed additive threshold rules to a
// typing profile. Sessions with too few events produce a zero verdict rather
// than flagging silence as anomalous.
func DetectTypingAnomalies(profile models.TypingProfile, cfg KeystrokeConfig) models.AnomalyVerdict {
	verdict := models.AnomalyVerdict{Indicators: make([]string, 0)}
	if profile.SampleSize < 5 {
		return verdict
	}

	if profile.IntervalVariance < cfg.UniformVariance {
		verdict.Confidence += 0.3
		verdict.Indicators = append(verdict.Indicators, "uniform timing")
	}
	if profile.AverageSpeed > cfg.FastSpeedCPM {
		verdict.Confidence += 0.2
		verdict.Indicators = append(verdict.Indicators, "too fast")
	}
	if profile.AverageSpeed > 0 && profile.AverageSpeed < cfg.SlowSpeedCPM {
		verdict.Confidence += 0.1
		verdict.Indicators = append(verdict.Indicators, "too slow")
	}
	if len(profile.PauseDurations) > 0 {
		long := 0
		for _, p := range profile.PauseDurations {
			if p > cfg.LongPauseMs {
				long++
			}
		}
		if float64(long)/float64(len(profile.PauseDurations)) > cfg.LongPauseShare {
			verdict.Confidence += 0.2
			verdict.Indicators = append(verdict.Indicators, "copy-paste pattern")
		}
	}
	if len(profile.DigraphLatencies) >= 2 {
		means := make([]float64, 0, len(profile.DigraphLatencies))
		for _, m := range profile.DigraphLatencies {
			means = append(means, m)
		}
		if populationVariance(means) < cfg.ConsistentDigraphs {
			verdict.Confidence += 0.2
			verdict.Indicators = append(verdict.Indicators, "too consistent")
		}
	}

	verdict.Confidence = clamp01(verdict.Confidence)
	verdict.Suspicious = verdict.Confidence > cfg.SuspicionThreshold
	return verdict
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

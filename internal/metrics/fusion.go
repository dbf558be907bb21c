package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

// FuseScore combines the modality verdicts into one fraud score snapshot.
// Rules are evaluated in a fixed order and every rule that fires appends a
// reason; the order is part of the report contract.
func FuseScore(
	sessionID string,
	typing models.AnomalyVerdict,
	code models.AnomalyVerdict,
	behavior models.BehaviorSignals,
	at time.Time,
	cfg FusionConfig,
) models.FraudScore {
	var total float64
	reasons := make([]models.Reason, 0, 8)

	add := func(code, message string, weight float64) {
		total += weight
		reasons = append(reasons, models.Reason{Code: code, Message: message, Weight: weight})
	}

	if w := typing.Confidence * cfg.KeystrokeWeight; w > 0 {
		add("keystroke_anomaly",
			fmt.Sprintf("typing anomalies detected: %s", joinIndicators(typing.Indicators)), w)
	}
	if w := code.Confidence * cfg.StylometryWeight; w > 0 {
		add("code_stylometry",
			fmt.Sprintf("code stylometry anomalies detected: %s", joinIndicators(code.Indicators)), w)
	}
	if behavior.PasteBursts > 0 {
		w := math.Min(float64(behavior.PasteBursts)*cfg.PasteWeight, cfg.PasteCap)
		add("paste_bursts", fmt.Sprintf("%d paste events observed", behavior.PasteBursts), w)
	}
	if behavior.TabSwitches > 0 {
		w := math.Min(float64(behavior.TabSwitches)*cfg.TabSwitchWeight, cfg.TabSwitchCap)
		add("tab_switches", fmt.Sprintf("%d window/tab switches observed", behavior.TabSwitches), w)
	}
	if behavior.CompileCount <= cfg.LowCompileMaxCount && behavior.SessionDurationMs > cfg.LowCompileMinSpanMs {
		add("low_compile_activity",
			fmt.Sprintf("only %d compile actions over %.0fs", behavior.CompileCount, behavior.SessionDurationMs/1000),
			cfg.LowCompileWeight)
	}
	if behavior.SuspiciousTiming {
		add("suspicious_timing", "irregular transcript timing gaps", cfg.TimingWeight)
	}
	if behavior.MouseAnomaly {
		add("mouse_anomaly", "suspicious pointer movement patterns", cfg.MouseAnomalyWeight)
	}
	if behavior.ApplicationSwitching {
		add("application_switching", "rapid application switching in the last 30s", cfg.AppSwitchWeight)
	}

	score := math.Max(0, math.Min(100, total))
	return models.FraudScore{
		SessionID: sessionID,
		Score:     score,
		Level:     LevelForScore(score, cfg),
		Reasons:   reasons,
		Timestamp: at,
	}
}

// LevelForScore discretizes a score into a risk tier.
func LevelForScore(score float64, cfg FusionConfig) models.RiskLevel {
	switch {
	case score >= cfg.HighThreshold:
		return models.RiskHigh
	case score >= cfg.MediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func joinIndicators(indicators []string) string {
	if len(indicators) == 0 {
		return "none"
	}
	out := indicators[0]
	for _, s := range indicators[1:] {
		out += ", " + s
	}
	return out
}

package models

import "time"

// TypingProfile is the per-session aggregate of keystroke timing statistics.
// It is recomputed on demand from the raw keystroke log; an empty log yields
// the zero profile.
type TypingProfile struct {
	SessionID         string             `json:"sessionId"`
	AverageSpeed      float64            `json:"averageSpeed"` // characters per minute
	DigraphLatencies  map[string]float64 `json:"digraphLatencies"`
	TrigraphLatencies map[string]float64 `json:"trigraphLatencies"`
	KeyHoldDurations  map[string]float64 `json:"keyHoldDurations"`
	PauseDurations    []float64          `json:"pauseDurations"`
	IntervalVariance  float64            `json:"intervalVariance"`
	SampleSize        int                `json:"sampleSize"`
}

// StructuralSummary reports coarse code structure counts and the dominant
// identifier naming convention ("camelCase", "snake_case", "PascalCase" or
// "mixed").
type StructuralSummary struct {
	FunctionCount    int    `json:"functionCount"`
	ClassCount       int    `json:"classCount"`
	ImportCount      int    `json:"importCount"`
	NamingConvention string `json:"namingConvention"`
}

// CodeStylometryFeatures is the static feature set derived from a single code
// submission. It is a pure function of the text.
type CodeStylometryFeatures struct {
	LineCount              int               `json:"lineCount"`
	CharacterCount         int               `json:"characterCount"`
	AverageLineLength      float64           `json:"averageLineLength"`
	CommentRatio           float64           `json:"commentRatio"`
	HasTernary             bool              `json:"hasTernary"`
	BareReturnCount        int               `json:"bareReturnCount"`
	HasDuplicateLines      bool              `json:"hasDuplicateLines"`
	ComplexityScore        float64           `json:"complexityScore"`
	AIGeneratedProbability float64           `json:"aiGeneratedProbability"`
	PerplexityScore        float64           `json:"perplexityScore"`
	Structure              StructuralSummary `json:"structure"`
}

// AnomalyVerdict is a modality-level anomaly assessment: an additive
// confidence in [0,1] plus the indicator labels that contributed to it.
type AnomalyVerdict struct {
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
	Suspicious bool     `json:"suspicious"`
}

// BehaviorSignals are the coarse activity-pattern signals derived from a
// session's raw logs.
type BehaviorSignals struct {
	PasteBursts          int     `json:"pasteBursts"`
	TabSwitches          int     `json:"tabSwitches"`
	CompileCount         int     `json:"compileCount"`
	AvgTranscriptLength  float64 `json:"avgTranscriptLength"`
	SessionDurationMs    float64 `json:"sessionDurationMs"`
	SuspiciousTiming     bool    `json:"suspiciousTiming"`
	OversizedKeyBatches  bool    `json:"oversizedKeyBatches"`
	MouseAnomaly         bool    `json:"mouseAnomaly"`
	ApplicationSwitching bool    `json:"applicationSwitching"`
}

// RiskLevel discretizes a fusion score into a tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Reason attributes part of a fraud score to one fired rule. Reasons are
// appended in the fixed rule evaluation order, which is part of the report
// contract.
type Reason struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Weight  float64 `json:"weight"`
}

// FraudScore is one snapshot of the fused session risk score.
type FraudScore struct {
	SessionID string    `json:"sessionId"`
	Score     float64   `json:"score"`
	Level     RiskLevel `json:"level"`
	Reasons   []Reason  `json:"reasons"`
	Timestamp time.Time `json:"timestamp"`
}

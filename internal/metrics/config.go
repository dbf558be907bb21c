package metrics

// KeystrokeConfig holds the keystroke analyzer's tunable constants. The
// defaults are the validated values; changing them changes scoring behavior
// across all sessions.
type KeystrokeConfig struct {
	MinLatencyMs       float64 `mapstructure:"min_latency_ms" yaml:"min_latency_ms"`
	MaxLatencyMs       float64 `mapstructure:"max_latency_ms" yaml:"max_latency_ms"`
	MaxHoldMs          float64 `mapstructure:"max_hold_ms" yaml:"max_hold_ms"`
	PauseThresholdMs   float64 `mapstructure:"pause_threshold_ms" yaml:"pause_threshold_ms"`
	LongPauseMs        float64 `mapstructure:"long_pause_ms" yaml:"long_pause_ms"`
	UniformVariance    float64 `mapstructure:"uniform_variance" yaml:"uniform_variance"`
	FastSpeedCPM       float64 `mapstructure:"fast_speed_cpm" yaml:"fast_speed_cpm"`
	SlowSpeedCPM       float64 `mapstructure:"slow_speed_cpm" yaml:"slow_speed_cpm"`
	LongPauseShare     float64 `mapstructure:"long_pause_share" yaml:"long_pause_share"`
	ConsistentDigraphs float64 `mapstructure:"consistent_digraphs" yaml:"consistent_digraphs"`
	SuspicionThreshold float64 `mapstructure:"suspicion_threshold" yaml:"suspicion_threshold"`
}

// DefaultKeystrokeConfig returns the standard keystroke thresholds.
func DefaultKeystrokeConfig() KeystrokeConfig {
	return KeystrokeConfig{
		MinLatencyMs:       10,
		MaxLatencyMs:       2000,
		MaxHoldMs:          2000,
		PauseThresholdMs:   100,
		LongPauseMs:        5000,
		UniformVariance:    50,
		FastSpeedCPM:       200,
		SlowSpeedCPM:       20,
		LongPauseShare:     0.3,
		ConsistentDigraphs: 100,
		SuspicionThreshold: 0.3,
	}
}

// StylometryConfig holds the code-stylometry analyzer's thresholds.
type StylometryConfig struct {
	LowCommentRatio    float64 `mapstructure:"low_comment_ratio" yaml:"low_comment_ratio"`
	LongLineLength     float64 `mapstructure:"long_line_length" yaml:"long_line_length"`
	AITypicalShare     float64 `mapstructure:"ai_typical_share" yaml:"ai_typical_share"`
	SuspicionThreshold float64 `mapstructure:"suspicion_threshold" yaml:"suspicion_threshold"`
}

// DefaultStylometryConfig returns the standard stylometry thresholds.
func DefaultStylometryConfig() StylometryConfig {
	return StylometryConfig{
		LowCommentRatio:    0.05,
		LongLineLength:     80,
		AITypicalShare:     0.3,
		SuspicionThreshold: 0.3,
	}
}

// BehaviorConfig holds the behavioral-pattern analyzer's thresholds.
type BehaviorConfig struct {
	BatchSizeLimit    int     `mapstructure:"batch_size_limit" yaml:"batch_size_limit"`
	TimingGapFactor   float64 `mapstructure:"timing_gap_factor" yaml:"timing_gap_factor"`
	TimingGapShare    float64 `mapstructure:"timing_gap_share" yaml:"timing_gap_share"`
	AppSwitchWindowMs float64 `mapstructure:"app_switch_window_ms" yaml:"app_switch_window_ms"`
	AppSwitchMinCount int     `mapstructure:"app_switch_min_count" yaml:"app_switch_min_count"`
}

// DefaultBehaviorConfig returns the standard behavioral thresholds.
func DefaultBehaviorConfig() BehaviorConfig {
	return BehaviorConfig{
		BatchSizeLimit:    50,
		TimingGapFactor:   3,
		TimingGapShare:    0.3,
		AppSwitchWindowMs: 30_000,
		AppSwitchMinCount: 5,
	}
}

// FusionConfig holds the fusion weights and level cut-offs. Weights are
// additive and intentionally unnormalized; the sum is clamped to [0,100].
type FusionConfig struct {
	KeystrokeWeight     float64 `mapstructure:"keystroke_weight" yaml:"keystroke_weight"`
	StylometryWeight    float64 `mapstructure:"stylometry_weight" yaml:"stylometry_weight"`
	PasteWeight         float64 `mapstructure:"paste_weight" yaml:"paste_weight"`
	PasteCap            float64 `mapstructure:"paste_cap" yaml:"paste_cap"`
	TabSwitchWeight     float64 `mapstructure:"tab_switch_weight" yaml:"tab_switch_weight"`
	TabSwitchCap        float64 `mapstructure:"tab_switch_cap" yaml:"tab_switch_cap"`
	LowCompileWeight    float64 `mapstructure:"low_compile_weight" yaml:"low_compile_weight"`
	LowCompileMaxCount  int     `mapstructure:"low_compile_max_count" yaml:"low_compile_max_count"`
	LowCompileMinSpanMs float64 `mapstructure:"low_compile_min_span_ms" yaml:"low_compile_min_span_ms"`
	TimingWeight        float64 `mapstructure:"timing_weight" yaml:"timing_weight"`
	MouseAnomalyWeight  float64 `mapstructure:"mouse_anomaly_weight" yaml:"mouse_anomaly_weight"`
	AppSwitchWeight     float64 `mapstructure:"app_switch_weight" yaml:"app_switch_weight"`
	HighThreshold       float64 `mapstructure:"high_threshold" yaml:"high_threshold"`
	MediumThreshold     float64 `mapstructure:"medium_threshold" yaml:"medium_threshold"`
}

// DefaultFusionConfig returns the standard fusion weights.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		KeystrokeWeight:     30,
		StylometryWeight:    25,
		PasteWeight:         6,
		PasteCap:            15,
		TabSwitchWeight:     3,
		TabSwitchCap:        10,
		LowCompileWeight:    10,
		LowCompileMaxCount:  1,
		LowCompileMinSpanMs: 300_000,
		TimingWeight:        5,
		MouseAnomalyWeight:  3,
		AppSwitchWeight:     2,
		HighThreshold:       70,
		MediumThreshold:     40,
	}
}

// ScoringConfig bundles every analyzer's constants.
type ScoringConfig struct {
	Keystroke  KeystrokeConfig  `mapstructure:"keystroke" yaml:"keystroke"`
	Stylometry StylometryConfig `mapstructure:"stylometry" yaml:"stylometry"`
	Behavior   BehaviorConfig   `mapstructure:"behavior" yaml:"behavior"`
	Fusion     FusionConfig     `mapstructure:"fusion" yaml:"fusion"`
}

// DefaultScoringConfig returns every analyzer's standard constants.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Keystroke:  DefaultKeystrokeConfig(),
		Stylometry: DefaultStylometryConfig(),
		Behavior:   DefaultBehaviorConfig(),
		Fusion:     DefaultFusionConfig(),
	}
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/metrics"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config is the top-level configuration structure.
type Config struct {
	Scoring   metrics.ScoringConfig `mapstructure:"scoring"`
	Languages LanguagesConfig       `mapstructure:"languages"`
	Report    ReportConfig          `mapstructure:"report"`
}

// LanguagesConfig points at an optional stylometry pattern override file.
type LanguagesConfig struct {
	File string `mapstructure:"file"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"`
}

// setDefaults registers every scoring constant with its validated default so
// a missing config file still yields the exact standard behavior.
func setDefaults(v *viper.Viper) {
	scoring := metrics.DefaultScoringConfig()

	v.SetDefault("scoring.keystroke.min_latency_ms", scoring.Keystroke.MinLatencyMs)
	v.SetDefault("scoring.keystroke.max_latency_ms", scoring.Keystroke.MaxLatencyMs)
	v.SetDefault("scoring.keystroke.max_hold_ms", scoring.Keystroke.MaxHoldMs)
	v.SetDefault("scoring.keystroke.pause_threshold_ms", scoring.Keystroke.PauseThresholdMs)
	v.SetDefault("scoring.keystroke.long_pause_ms", scoring.Keystroke.LongPauseMs)
	v.SetDefault("scoring.keystroke.uniform_variance", scoring.Keystroke.UniformVariance)
	v.SetDefault("scoring.keystroke.fast_speed_cpm", scoring.Keystroke.FastSpeedCPM)
	v.SetDefault("scoring.keystroke.slow_speed_cpm", scoring.Keystroke.SlowSpeedCPM)
	v.SetDefault("scoring.keystroke.long_pause_share", scoring.Keystroke.LongPauseShare)
	v.SetDefault("scoring.keystroke.consistent_digraphs", scoring.Keystroke.ConsistentDigraphs)
	v.SetDefault("scoring.keystroke.suspicion_threshold", scoring.Keystroke.SuspicionThreshold)

	v.SetDefault("scoring.stylometry.low_comment_ratio", scoring.Stylometry.LowCommentRatio)
	v.SetDefault("scoring.stylometry.long_line_length", scoring.Stylometry.LongLineLength)
	v.SetDefault("scoring.stylometry.ai_typical_share", scoring.Stylometry.AITypicalShare)
	v.SetDefault("scoring.stylometry.suspicion_threshold", scoring.Stylometry.SuspicionThreshold)

	v.SetDefault("scoring.behavior.batch_size_limit", scoring.Behavior.BatchSizeLimit)
	v.SetDefault("scoring.behavior.timing_gap_factor", scoring.Behavior.TimingGapFactor)
	v.SetDefault("scoring.behavior.timing_gap_share", scoring.Behavior.TimingGapShare)
	v.SetDefault("scoring.behavior.app_switch_window_ms", scoring.Behavior.AppSwitchWindowMs)
	v.SetDefault("scoring.behavior.app_switch_min_count", scoring.Behavior.AppSwitchMinCount)

	v.SetDefault("scoring.fusion.keystroke_weight", scoring.Fusion.KeystrokeWeight)
	v.SetDefault("scoring.fusion.stylometry_weight", scoring.Fusion.StylometryWeight)
	v.SetDefault("scoring.fusion.paste_weight", scoring.Fusion.PasteWeight)
	v.SetDefault("scoring.fusion.paste_cap", scoring.Fusion.PasteCap)
	v.SetDefault("scoring.fusion.tab_switch_weight", scoring.Fusion.TabSwitchWeight)
	v.SetDefault("scoring.fusion.tab_switch_cap", scoring.Fusion.TabSwitchCap)
	v.SetDefault("scoring.fusion.low_compile_weight", scoring.Fusion.LowCompileWeight)
	v.SetDefault("scoring.fusion.low_compile_max_count", scoring.Fusion.LowCompileMaxCount)
	v.SetDefault("scoring.fusion.low_compile_min_span_ms", scoring.Fusion.LowCompileMinSpanMs)
	v.SetDefault("scoring.fusion.timing_weight", scoring.Fusion.TimingWeight)
	v.SetDefault("scoring.fusion.mouse_anomaly_weight", scoring.Fusion.MouseAnomalyWeight)
	v.SetDefault("scoring.fusion.app_switch_weight", scoring.Fusion.AppSwitchWeight)
	v.SetDefault("scoring.fusion.high_threshold", scoring.Fusion.HighThreshold)
	v.SetDefault("scoring.fusion.medium_threshold", scoring.Fusion.MediumThreshold)

	v.SetDefault("languages.file", "")
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.title", "Interview Integrity Report")
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ZAKSHA") // e.g. ZAKSHA_SCORING_FUSION_HIGH_THRESHOLD
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine; defaults and env vars still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Hot-reload scoring constants on file change.
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}

// Scoring returns the active scoring constants, falling back to the defaults
// when Init was never called (library use, tests).
func Scoring() metrics.ScoringConfig {
	if Conf == nil {
		return metrics.DefaultScoringConfig()
	}
	return Conf.Scoring
}

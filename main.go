package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/config"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/engine"
	logger "github.com/tkarna-dev/zaksha-interview-ai/internal/logging"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/report"
)

// replayFile is a recorded telemetry session: every modality's events plus
// the code submissions, replayed through the engine in file order.
type replayFile struct {
	CandidateID   string                   `yaml:"candidate_id"`
	CompanyID     string                   `yaml:"company_id"`
	Role          string                   `yaml:"role"`
	Consent       models.ConsentFlags      `yaml:"consent"`
	Transcript    []models.TranscriptChunk `yaml:"transcript"`
	ScreenEvents  []screenEntry            `yaml:"screen_events"`
	CompileEvents []compileEntry           `yaml:"compile_events"`
	Keystrokes    []keystrokeEntry         `yaml:"keystrokes"`
	CodeSamples   []codeEntry              `yaml:"code_samples"`
}

type screenEntry struct {
	Timestamp float64        `yaml:"t"`
	Type      string         `yaml:"type"`
	Meta      map[string]any `yaml:"meta"`
}

type compileEntry struct {
	Timestamp float64 `yaml:"t"`
	Action    string  `yaml:"action"`
	Success   *bool   `yaml:"success"`
}

type keystrokeEntry struct {
	Timestamp float64 `yaml:"t"`
	Key       string  `yaml:"key"`
	Action    string  `yaml:"action"`
}

type codeEntry struct {
	Language string `yaml:"language"`
	Code     string `yaml:"code"`
}

func main() {
	input := flag.String("input", "", "recorded session YAML to replay")
	out := flag.String("out", "", "HTML report path (default <report.output_dir>/<sessionId>.html)")
	flag.Parse()

	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	langs := models.DefaultLanguageTable()
	if file := config.Conf.Languages.File; file != "" {
		langs, err = models.LoadLanguageTable(file)
		if err != nil {
			log.Fatal("Failed to load language patterns", zap.Error(err))
		}
	}

	if *input == "" {
		log.Fatal("No input file given; pass -input <session.yaml>")
	}

	eng := engine.New(log, config.Scoring(), engine.WithLanguageTable(langs))
	rep, err := replay(eng, *input)
	if err != nil {
		log.Fatal("Replay failed", zap.Error(err))
	}

	encoded, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode report", zap.Error(err))
	}
	fmt.Println(string(encoded))

	htmlPath := *out
	if htmlPath == "" {
		dir := config.Conf.Report.OutputDir
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create report directory", zap.Error(err))
		}
		htmlPath = filepath.Join(dir, rep.Session.ID+".html")
	}
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatal("Failed to create report file", zap.Error(err))
	}
	defer f.Close()
	if err := report.RenderScoreTimeline(rep, config.Conf.Report.Title, f); err != nil {
		log.Fatal("Failed to render report", zap.Error(err))
	}
	log.Info("Report written", zap.String("path", htmlPath))
}

// replay runs a recorded session through the engine and returns its report.
func replay(eng *engine.Engine, path string) (engine.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Report{}, fmt.Errorf("failed to read session file: %w", err)
	}
	var file replayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return engine.Report{}, fmt.Errorf("failed to unmarshal session YAML: %w", err)
	}

	session := eng.StartSession(file.CandidateID, file.CompanyID, file.Role, file.Consent)

	for _, entry := range file.Keystrokes {
		if _, err := eng.IngestKeystroke(session.ID, models.KeystrokeEvent{
			Timestamp: entry.Timestamp,
			Key:       entry.Key,
			Action:    models.KeyAction(entry.Action),
		}); err != nil {
			return engine.Report{}, err
		}
	}
	for _, chunk := range file.Transcript {
		if _, err := eng.IngestTranscript(session.ID, chunk); err != nil {
			return engine.Report{}, err
		}
	}
	for _, entry := range file.ScreenEvents {
		if _, err := eng.IngestScreenEvent(session.ID, models.ScreenEvent{
			Timestamp: entry.Timestamp,
			Type:      models.ScreenEventType(entry.Type),
			Meta:      entry.Meta,
		}); err != nil {
			return engine.Report{}, err
		}
	}
	for _, entry := range file.CompileEvents {
		if _, err := eng.IngestCompileEvent(session.ID, models.CompileRunEvent{
			Timestamp: entry.Timestamp,
			Action:    models.CompileAction(entry.Action),
			Success:   entry.Success,
		}); err != nil {
			return engine.Report{}, err
		}
	}
	for _, entry := range file.CodeSamples {
		if _, err := eng.SubmitCodeSample(session.ID, entry.Code, entry.Language); err != nil {
			return engine.Report{}, err
		}
	}

	if err := eng.EndSession(session.ID); err != nil {
		return engine.Report{}, err
	}
	return eng.GetReport(session.ID)
}

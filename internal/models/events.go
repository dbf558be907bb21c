package models

import "time"

// TranscriptChunk is one fragment of the spoken/typed transcript. Chunks are
// appended in arrival order; Sequence is caller metadata and is never used to
// reorder the log.
type TranscriptChunk struct {
	SessionID string  `json:"sessionId" yaml:"-"`
	Sequence  int     `json:"sequence" yaml:"sequence"`
	Text      string  `json:"text" yaml:"text"`
	StartMs   float64 `json:"startMs" yaml:"start_ms"`
	EndMs     float64 `json:"endMs" yaml:"end_ms"`
	Speaker   string  `json:"speaker,omitempty" yaml:"speaker"`
}

// ScreenEventType enumerates the coarse screen-activity events the capture
// client reports.
type ScreenEventType string

const (
	EventPaste          ScreenEventType = "PASTE"
	EventWindowSwitch   ScreenEventType = "WINDOW_SWITCH"
	EventTabBlur        ScreenEventType = "TAB_BLUR"
	EventAppSwitch      ScreenEventType = "APPLICATION_SWITCH"
	EventKeystrokeBatch ScreenEventType = "KEYSTROKE_BATCH"
	EventMouseAnomaly   ScreenEventType = "MOUSE_ANOMALY"
	EventFocus          ScreenEventType = "FOCUS"
	EventResize         ScreenEventType = "RESIZE"
)

// ScreenEvent is a timestamped screen/window activity record with free-form
// metadata supplied by the capture client.
type ScreenEvent struct {
	SessionID string          `json:"sessionId"`
	Timestamp float64         `json:"timestamp"`
	Type      ScreenEventType `json:"type"`
	Meta      map[string]any  `json:"meta,omitempty"`
}

// CompileAction is the kind of build activity the candidate triggered.
type CompileAction string

const (
	ActionCompile CompileAction = "compile"
	ActionRun     CompileAction = "run"
	ActionTest    CompileAction = "test"
)

// CompileRunEvent records one compile/run/test action.
type CompileRunEvent struct {
	SessionID string        `json:"sessionId"`
	Timestamp float64       `json:"timestamp"`
	Action    CompileAction `json:"action"`
	Success   *bool         `json:"success,omitempty"`
}

// KeyAction distinguishes key presses from key releases.
type KeyAction string

const (
	KeyDown KeyAction = "down"
	KeyUp   KeyAction = "up"
)

// KeystrokeEvent is one raw key action. Timestamps are epoch milliseconds as
// reported by the capture client.
type KeystrokeEvent struct {
	SessionID string    `json:"sessionId"`
	Timestamp float64   `json:"timestamp"`
	Key       string    `json:"key"`
	Action    KeyAction `json:"action"`
}

// Digraph is a timing feature derived from a key release followed by the next
// key press.
type Digraph struct {
	Key1      string  `json:"key1"`
	Key2      string  `json:"key2"`
	Latency   float64 `json:"latency"`
	Timestamp float64 `json:"timestamp"`
}

// Trigraph is a timing feature over three consecutive key presses; both
// release-to-press legs must individually pass the latency band.
type Trigraph struct {
	Key1      string  `json:"key1"`
	Key2      string  `json:"key2"`
	Key3      string  `json:"key3"`
	Latency1  float64 `json:"latency1"`
	Latency2  float64 `json:"latency2"`
	Timestamp float64 `json:"timestamp"`
}

// CodeSample is one code submission made during the session.
type CodeSample struct {
	SessionID   string    `json:"sessionId"`
	Code        string    `json:"code"`
	Language    string    `json:"language,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

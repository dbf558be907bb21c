package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarna-dev/zaksha-interview-ai/internal/engine"
	"github.com/tkarna-dev/zaksha-interview-ai/internal/models"
)

func TestRenderScoreTimeline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rep := engine.Report{
		Session: models.Session{ID: "sess-1-abc", Status: models.StatusEnded},
		Scores: []models.FraudScore{
			{SessionID: "sess-1-abc", Score: 12, Level: models.RiskLow, Timestamp: now},
			{SessionID: "sess-1-abc", Score: 47, Level: models.RiskMedium, Timestamp: now.Add(time.Minute)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderScoreTimeline(rep, "Interview Integrity Report", &buf))

	html := buf.String()
	assert.Contains(t, html, "Interview Integrity Report")
	assert.Contains(t, html, "sess-1-abc")
	assert.Contains(t, html, "Fraud Score")
}

func TestRenderScoreTimeline_EmptyHistory(t *testing.T) {
	rep := engine.Report{Session: models.Session{ID: "sess-2-def"}}

	var buf bytes.Buffer
	require.NoError(t, RenderScoreTimeline(rep, "Report", &buf))
	assert.NotZero(t, buf.Len())
}

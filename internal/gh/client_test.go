package gh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunShortSHA(t *testing.T) {
	assert.Equal(t, "unknown", Run{}.ShortSHA())
	assert.Equal(t, "abc12", Run{HeadSHA: "abc12"}.ShortSHA())
	assert.Equal(t, "abc1234", Run{HeadSHA: "abc1234def5678"}.ShortSHA())
}

func TestRunFormattedDate(t *testing.T) {
	assert.Equal(t, "unknown date", Run{}.FormattedDate())

	created := time.Date(2024, 5, 1, 12, 34, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01 12:34", Run{CreatedAt: created}.FormattedDate())
}

func TestJobDuration(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		job         Job
		wantSeconds float64
		wantString  string
	}{
		{
			"normal duration",
			Job{StartedAt: started, CompletedAt: started.Add(95 * time.Second)},
			95,
			"1m 35s",
		},
		{
			"under a minute",
			Job{StartedAt: started, CompletedAt: started.Add(42 * time.Second)},
			42,
			"42s",
		},
		{
			"missing completion",
			Job{StartedAt: started},
			0,
			"n/a",
		},
		{
			"missing start",
			Job{CompletedAt: started},
			0,
			"n/a",
		},
		{
			"completed before start",
			Job{StartedAt: started, CompletedAt: started.Add(-time.Minute)},
			0,
			"0s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSeconds, tt.job.DurationSeconds())
			assert.Equal(t, tt.wantString, tt.job.DurationString())
		})
	}
}

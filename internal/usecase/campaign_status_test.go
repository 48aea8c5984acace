package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogRing_DropsOldest(t *testing.T) {
	r := NewLogRing(3)
	r.now = func() time.Time { return time.Date(2026, 1, 1, 9, 5, 7, 0, time.UTC) }

	for i := 1; i <= 5; i++ {
		r.Append("linha %d", i)
	}

	assert.Equal(t, []string{
		"[09:05:07] linha 3",
		"[09:05:07] linha 4",
		"[09:05:07] linha 5",
	}, r.Lines())
}

func TestLogRing_Reset(t *testing.T) {
	r := NewLogRing(0)
	r.Append("x")
	r.Reset()
	assert.Empty(t, r.Lines())

	r.Append("y")
	assert.Len(t, r.Lines(), 1)
}

func TestCampaignStatus_Progress(t *testing.T) {
	s := CampaignStatus{}
	s.recomputeProgress()
	assert.Zero(t, s.Progress)

	s.TotalFound, s.Processed = 4, 1
	s.recomputeProgress()
	assert.Equal(t, 0.25, s.Progress)
}

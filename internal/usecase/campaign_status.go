package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

const DefaultLogCapacity = 200

type CampaignStatus struct {
	RunID          string                   `json:"run_id,omitempty"`
	Running        bool                     `json:"running"`
	Paused         bool                     `json:"paused"`
	Criteria       string                   `json:"criteria,omitempty"`
	TotalFound     int                      `json:"total_found"`
	Processed      int                      `json:"processed"`
	ChannelValid   int                      `json:"channel_valid"`
	MessagesSent   int                      `json:"messages_sent"`
	QuotaUsedToday int                      `json:"quota_used_today"`
	DailyCap       int                      `json:"daily_cap"`
	Progress       float64                  `json:"progress"` // 0..1
	Failure        string                   `json:"failure,omitempty"`
	EndReason      string                   `json:"end_reason,omitempty"`
	StartedAt      *time.Time               `json:"started_at,omitempty"`
	FinishedAt     *time.Time               `json:"finished_at,omitempty"`
	Leads          []entity.ProcessingState `json:"leads"`
	Logs           []string                 `json:"logs"`
}

func (s *CampaignStatus) recomputeProgress() {
	if s.TotalFound == 0 {
		s.Progress = 0
		return
	}
	s.Progress = float64(s.Processed) / float64(s.TotalFound)
}

// LogRing keeps the last N operator log lines; the oldest are dropped.
type LogRing struct {
	mu    sync.Mutex
	lines []string
	start int
	size  int
	now   func() time.Time
}

func NewLogRing(capacity int) *LogRing {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogRing{lines: make([]string, capacity), now: time.Now}
}

func (r *LogRing) Append(format string, args ...any) string {
	line := fmt.Sprintf("[%s] %s", r.now().Format("15:04:05"), fmt.Sprintf(format, args...))

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := (r.start + r.size) % len(r.lines)
	r.lines[idx] = line
	if r.size < len(r.lines) {
		r.size++
	} else {
		r.start = (r.start + 1) % len(r.lines)
	}
	return line
}

// Lines returns the buffered lines, oldest first.
func (r *LogRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.lines[(r.start+i)%len(r.lines)])
	}
	return out
}

func (r *LogRing) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start, r.size = 0, 0
}

package usecase

import (
	"context"
	"time"
)

const DefaultDailyCap = 40

// StartOfDay is local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// quotaTracker keeps today's dispatch count. The count is always seeded from the
// outcome log and re-derived from it when the calendar day changes.
type quotaTracker struct {
	counter  QuotaCounter
	tenantID string
	loc      *time.Location
	now      func() time.Time

	day  time.Time
	used int
}

func newQuotaTracker(counter QuotaCounter, tenantID string, loc *time.Location, now func() time.Time) *quotaTracker {
	if now == nil {
		now = time.Now
	}
	return &quotaTracker{counter: counter, tenantID: tenantID, loc: loc, now: now}
}

// Refresh recounts from the log when the day changed since the last count.
// On error the tracker stays on the old day, so the next call retries; the
// returned count is then stale and callers must not enforce the cap with it.
func (q *quotaTracker) Refresh(ctx context.Context) (int, error) {
	today := StartOfDay(q.now(), q.loc)
	if !q.day.IsZero() && q.day.Equal(today) {
		return q.used, nil
	}

	used, err := q.counter.CountSentSince(ctx, q.tenantID, today)
	if err != nil {
		return q.used, err
	}
	q.day = today
	q.used = used
	return used, nil
}

// Increment counts a dispatch the provider confirmed, whether or not its
// outcome row was persisted: the in-run count follows real sends.
func (q *quotaTracker) Increment() {
	q.used++
}

func (q *quotaTracker) Used() int {
	return q.used
}

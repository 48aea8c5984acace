package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

// Pause takes effect before the next lead. No-op when no run is active.
func (r *CampaignRunner) Pause() {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()
	if !r.running || r.paused {
		return
	}
	r.paused = true

	r.mu.Lock()
	r.status.Paused = true
	r.mu.Unlock()
	r.logf("⏸️ Campanha pausada")
}

func (r *CampaignRunner) Resume() {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()
	if !r.running || !r.paused {
		return
	}
	r.paused = false
	close(r.pauseChanged)
	r.pauseChanged = make(chan struct{})

	r.mu.Lock()
	r.status.Paused = false
	r.mu.Unlock()
	r.logf("▶️ Campanha retomada")
}

// Stop cancels the run. The loop notices it before the next lead, inside the
// pacing wait or inside the pause wait.
func (r *CampaignRunner) Stop() {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()
	if !r.running || r.cancel == nil {
		return
	}
	r.cancel()
	r.logf("⏹️ Parada solicitada pelo operador")
}

// Wait blocks until the current run (if any) has exited.
func (r *CampaignRunner) Wait() {
	r.ctrl.Lock()
	done := r.done
	r.ctrl.Unlock()
	if done != nil {
		<-done
	}
}

func (r *CampaignRunner) IsRunning() bool {
	r.ctrl.Lock()
	defer r.ctrl.Unlock()
	return r.running
}

// Status returns a copy safe to hand to other goroutines.
func (r *CampaignRunner) Status() CampaignStatus {
	r.mu.RLock()
	s := r.status
	s.Leads = append([]entity.ProcessingState(nil), r.status.Leads...)
	r.mu.RUnlock()

	s.Logs = r.logs.Lines()
	return s
}

func (r *CampaignRunner) waitWhilePaused(ctx context.Context) error {
	announced := false
	for {
		r.ctrl.Lock()
		if !r.paused {
			r.ctrl.Unlock()
			return ctx.Err()
		}
		ch := r.pauseChanged
		r.ctrl.Unlock()

		if !announced {
			r.logf("💤 Aguardando retomada...")
			announced = true
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// sleepCtx waits d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/usecase"
)

type TenantCounter interface {
	CountSentSinceByTenant(ctx context.Context, tenantIDs []string, since time.Time) (map[string]int, error)
}

type TenantLister interface {
	Tenants() []string
}

type QuotaSink interface {
	SetQuotaUsed(tenantID string, used int)
}

// QuotaGaugeWorker recalcula periodicamente a cota usada hoje por tenant a
// partir do log de outcomes, para que o gauge zere na virada do dia mesmo sem
// campanha rodando.
type QuotaGaugeWorker struct {
	counter      TenantCounter
	tenants      TenantLister
	sink         QuotaSink
	loc          *time.Location
	logger       *zap.Logger
	tickInterval time.Duration
	queryTimeout time.Duration
	now          func() time.Time
}

func NewQuotaGaugeWorker(counter TenantCounter, tenants TenantLister, sink QuotaSink, loc *time.Location, logger *zap.Logger) *QuotaGaugeWorker {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotaGaugeWorker{
		counter:      counter,
		tenants:      tenants,
		sink:         sink,
		loc:          loc,
		logger:       logger.Named("quota-gauge"),
		tickInterval: 1 * time.Minute, // Roda a cada 1 min
		queryTimeout: 10 * time.Second,
		now:          time.Now,
	}
}

func (w *QuotaGaugeWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 Quota gauge worker iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ Quota gauge worker encerrado")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *QuotaGaugeWorker) refresh(ctx context.Context) {
	tenants := w.tenants.Tenants()
	if len(tenants) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.queryTimeout)
	defer cancel()

	since := usecase.StartOfDay(w.now(), w.loc)
	counts, err := w.counter.CountSentSinceByTenant(ctx, tenants, since)
	if err != nil {
		w.logger.Error("❌ Erro ao contar envios do dia", zap.Error(err))
		return
	}

	for _, tenant := range tenants {
		w.sink.SetQuotaUsed(tenant, counts[tenant])
	}
}

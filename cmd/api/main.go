package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-prospecting/internal/config"
	"github.com/xavierca1/ligue-prospecting/internal/infra/database"
	"github.com/xavierca1/ligue-prospecting/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-prospecting/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-prospecting/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-prospecting/internal/infra/integration/places"
	"github.com/xavierca1/ligue-prospecting/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-prospecting/internal/infra/logging"
	"github.com/xavierca1/ligue-prospecting/internal/infra/mail"
	"github.com/xavierca1/ligue-prospecting/internal/infra/queue"
	"github.com/xavierca1/ligue-prospecting/internal/infra/worker"
	"github.com/xavierca1/ligue-prospecting/internal/usecase"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ configuração inválida: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ LOG_LEVEL inválido: %v", err)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("servidor encerrado com erro", zap.Error(err))
	}
	logger.Info("👋 até logo")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	// 1. Repositórios
	outcomeRepo := database.NewOutcomeRepository(db)
	leadRepo := database.NewLeadRepository(db)

	// 2. Integrações
	directory := places.NewClient(cfg.PlacesAPIKey, cfg.PlacesBaseURL, cfg.PlacesLanguage, cfg.HTTPClientTimeout, logger)
	wa := whatsapp.NewClient(cfg.WhatsAppURL, cfg.WhatsAppKey, cfg.WhatsAppInstance, cfg.HTTPClientTimeout, logger)
	crm := kommo.NewClient(cfg.KommoToken, cfg.KommoBaseURL, cfg.KommoStatusID, cfg.HTTPClientTimeout, logger)
	recorder := middleware.NewPrometheusRecorder()

	// 3. Fila (opcional)
	var rabbitMQ *queue.RabbitMQ
	var publisher usecase.OutcomePublisher
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		publisher = queue.NewProducer(rabbitMQ.Ch)
	} else {
		logger.Warn("RABBITMQ_URL não configurado; eventos de outcome desativados")
	}

	var notifier usecase.CampaignNotifier
	if cfg.ReportEmail != "" && cfg.MailHost != "" {
		notifier = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.ReportEmail)
	}

	// 4. Motor de campanha
	discovery := usecase.NewCandidateDiscovery(directory, outcomeRepo, logger)
	discovery.MaxPages = cfg.MaxPages
	discovery.PageDelay = cfg.PageDelay
	discovery.CallTimeout = cfg.HTTPClientTimeout

	manager := usecase.NewCampaignManager(func(tenantID string) *usecase.CampaignRunner {
		return usecase.NewCampaignRunner(usecase.RunnerConfig{
			TenantID:          tenantID,
			Location:          cfg.Timezone,
			DailyCap:          cfg.DailyCap,
			PacingInterval:    cfg.Pacing,
			FailureDelay:      cfg.FailureDelay,
			MinYield:          cfg.MinYield,
			ValidationTimeout: cfg.HTTPClientTimeout,
			DispatchTimeout:   cfg.HTTPClientTimeout,
		}, usecase.RunnerDeps{
			Discovery:  discovery,
			Validator:  wa,
			Dispatcher: wa,
			Channel:    wa,
			Leads:      leadRepo,
			Outcomes:   outcomeRepo,
			Quota:      outcomeRepo,
			Publisher:  publisher,
			Notifier:   notifier,
			Recorder:   recorder,
			Logger:     logger.Named("runner"),
		})
	})

	// 5. HTTP
	rateLimiter := handlers.NewRateLimiter(10, time.Minute) // 10 req/min por IP
	health := handlers.NewHealthHandler(db, nil, wa)
	if rabbitMQ != nil {
		health.RabbitMQ = rabbitMQ.Conn
	}
	router := newRouter(manager, outcomeRepo, health, rateLimiter, cfg.AllowedOrigins, cfg.TrustProxyHeaders, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("🔥 Server de prospecção rodando", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		worker.NewQuotaGaugeWorker(outcomeRepo, manager, recorder, cfg.Timezone, logger).Start(gctx)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				rateLimiter.Cleanup()
			}
		}
	})

	if rabbitMQ != nil && crm.Configured() {
		crmWorker := queue.NewWorker(rabbitMQ.Ch, crm, logger)
		g.Go(func() error {
			return crmWorker.Start(gctx, queue.QueueName)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("⏹️ encerrando: parando campanhas")
		manager.StopAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

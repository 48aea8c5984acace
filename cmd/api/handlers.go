package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/infra/database"
	"github.com/xavierca1/ligue-prospecting/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-prospecting/internal/usecase"
)

func newRouter(
	manager *usecase.CampaignManager,
	outcomes *database.OutcomeRepository,
	health *handlers.HealthHandler,
	rateLimiter *handlers.RateLimiter,
	origins []string,
	trustProxy bool,
	logger *zap.Logger,
) http.Handler {
	return handlers.NewRouter(handlers.RouterDeps{
		Campaign:          handlers.NewCampaignHandler(manager, outcomes, logger),
		Health:            health,
		RateLimiter:       rateLimiter,
		AllowedOrigins:    origins,
		TrustProxyHeaders: trustProxy,
	})
}

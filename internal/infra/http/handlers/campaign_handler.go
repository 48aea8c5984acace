package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
	"github.com/xavierca1/ligue-prospecting/internal/usecase"
)

type CampaignService interface {
	Start(ctx context.Context, tenantID string, input usecase.StartCampaignInput) error
	Pause(tenantID string)
	Resume(tenantID string)
	Stop(tenantID string)
	Status(tenantID string) usecase.CampaignStatus
}

type OutcomeLister interface {
	ListRecent(ctx context.Context, tenantID string, limit int) ([]entity.Outcome, error)
}

type CampaignHandler struct {
	Campaigns CampaignService
	Outcomes  OutcomeLister
	Logger    *zap.Logger
}

func NewCampaignHandler(campaigns CampaignService, outcomes OutcomeLister, logger *zap.Logger) *CampaignHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignHandler{
		Campaigns: campaigns,
		Outcomes:  outcomes,
		Logger:    logger.Named("campaign-handler"),
	}
}

// Start (POST /tenants/{tenantID}/campaign/start)
func (h *CampaignHandler) Start(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	var input usecase.StartCampaignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	// A campanha vive além da requisição; o contexto do request não pode cancelá-la.
	if err := h.Campaigns.Start(context.WithoutCancel(r.Context()), tenantID, input); err != nil {
		h.Logger.Info("campanha recusada",
			zap.String("tenant", tenantID),
			zap.String("code", usecase.ErrorCode(err)),
			zap.Error(err))
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, h.Campaigns.Status(tenantID))
}

func (h *CampaignHandler) Pause(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	h.Campaigns.Pause(tenantID)
	writeJSON(w, http.StatusOK, h.Campaigns.Status(tenantID))
}

func (h *CampaignHandler) Resume(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	h.Campaigns.Resume(tenantID)
	writeJSON(w, http.StatusOK, h.Campaigns.Status(tenantID))
}

func (h *CampaignHandler) Stop(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	h.Campaigns.Stop(tenantID)
	writeJSON(w, http.StatusOK, h.Campaigns.Status(tenantID))
}

func (h *CampaignHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Campaigns.Status(chi.URLParam(r, "tenantID")))
}

// ListOutcomes (GET /tenants/{tenantID}/outcomes?limit=N)
func (h *CampaignHandler) ListOutcomes(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_LIMIT", "limit deve ser um inteiro positivo")
			return
		}
		limit = n
	}

	outcomes, err := h.Outcomes.ListRecent(r.Context(), tenantID, limit)
	if err != nil {
		h.Logger.Error("erro ao listar outcomes", zap.String("tenant", tenantID), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Erro ao listar outcomes")
		return
	}
	if outcomes == nil {
		outcomes = []entity.Outcome{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID,
		"outcomes":  outcomes,
	})
}

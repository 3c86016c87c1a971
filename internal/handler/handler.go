package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/geraldhq/bnpl-gateway/internal/integrations/bank"
	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/geraldhq/bnpl-gateway/internal/scoring"
	"github.com/geraldhq/bnpl-gateway/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const historyLimit = 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type decisionRequest struct {
	UserID               string `json:"user_id"`
	AmountCentsRequested int64  `json:"amount_cents_requested"`
}

type decisionResponse struct {
	Approved           bool    `json:"approved"`
	CreditLimitCents   int64   `json:"credit_limit_cents"`
	AmountGrantedCents int64   `json:"amount_granted_cents"`
	PlanID             *string `json:"plan_id"`
}

// CreateDecision handles POST /v1/decision
func (h *Handler) CreateDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.AmountCentsRequested <= 0 {
		writeError(w, http.StatusBadRequest, "amount_cents_requested must be positive")
		return
	}

	result, err := h.svc.Decide(r.Context(), req.UserID, req.AmountCentsRequested)
	if err != nil {
		switch {
		case errors.Is(err, bank.ErrBankUnavailable), errors.Is(err, bank.ErrMalformedData):
			h.log.Errorf("Bank API error for user %s: %v", req.UserID, err)
			writeError(w, http.StatusServiceUnavailable, "bank service unavailable")
		case errors.Is(err, scoring.ErrInsufficientData):
			h.log.Warnf("Insufficient data for user %s", req.UserID)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.log.Errorf("Decision failed for user %s: %v", req.UserID, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp := decisionResponse{
		Approved:           result.Decision.Approved,
		CreditLimitCents:   result.Decision.CreditLimitCents,
		AmountGrantedCents: result.AmountGrantedCents,
	}
	if result.PlanID != nil {
		id := result.PlanID.String()
		resp.PlanID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

type planResponse struct {
	PlanID       string               `json:"plan_id"`
	UserID       string               `json:"user_id"`
	TotalCents   int64                `json:"total_cents"`
	Installments []models.Installment `json:"installments"`
	CreatedAt    string               `json:"created_at"`
}

// GetPlan handles GET /v1/plan/{plan_id}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(mux.Vars(r)["plan_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan ID format")
		return
	}

	plan, err := h.svc.Plan(r.Context(), planID)
	if err != nil {
		h.log.Errorf("Failed to load plan %s: %v", planID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}

	writeJSON(w, http.StatusOK, planResponse{
		PlanID:       plan.ID.String(),
		UserID:       plan.UserID,
		TotalCents:   plan.TotalCents,
		Installments: plan.Installments,
		CreatedAt:    plan.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

type historyItem struct {
	DecisionID         string `json:"decision_id"`
	Approved           bool   `json:"approved"`
	CreditLimitCents   int64  `json:"credit_limit_cents"`
	AmountGrantedCents int64  `json:"amount_granted_cents"`
	CreatedAt          string `json:"created_at"`
}

type historyResponse struct {
	UserID    string        `json:"user_id"`
	Decisions []historyItem `json:"decisions"`
}

// GetHistory handles GET /v1/decision/history?user_id=
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	records, err := h.svc.History(r.Context(), userID, historyLimit)
	if err != nil {
		h.log.Errorf("Failed to load history for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyItem{
			DecisionID:         rec.ID.String(),
			Approved:           rec.Decision.Approved,
			CreditLimitCents:   rec.Decision.CreditLimitCents,
			AmountGrantedCents: rec.AmountGrantedCents,
			CreatedAt:          rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, historyResponse{UserID: userID, Decisions: items})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "bnpl-gateway"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/installments"
	"github.com/geraldhq/bnpl-gateway/internal/integrations/ledger"
	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/geraldhq/bnpl-gateway/internal/scoring"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TransactionSource fetches a user's transaction history from the bank API.
type TransactionSource interface {
	Transactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

// Store is the persistence collaborator for decisions and plans.
type Store interface {
	SaveDecision(ctx context.Context, rec *models.DecisionRecord) error
	SavePlan(ctx context.Context, plan *models.Plan) error
	PlanByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	DecisionsByUser(ctx context.Context, userID string, limit int) ([]models.DecisionRecord, error)
}

// WebhookDispatcher schedules approval events for background delivery.
type WebhookDispatcher interface {
	Enqueue(event models.ApprovalEvent) (*ledger.Task, error)
}

// MetricsSink receives decision-flow side effects; reporting failures must
// never affect outcomes, so its methods cannot fail.
type MetricsSink interface {
	ObserveDecision(approved bool, creditLimitCents int64)
	IncBankFetchFailure()
}

// Service handles business logic
type Service struct {
	source   TransactionSource
	store    Store
	webhooks WebhookDispatcher
	metrics  MetricsSink
	log      *logrus.Logger
	now      func() time.Time
}

// NewService initializes a new service
func NewService(source TransactionSource, store Store, webhooks WebhookDispatcher, metrics MetricsSink, log *logrus.Logger) *Service {
	return &Service{
		source:   source,
		store:    store,
		webhooks: webhooks,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// DecisionResult is the outcome of one decision request.
type DecisionResult struct {
	Decision           models.CreditDecision
	AmountGrantedCents int64
	PlanID             *uuid.UUID
}

// Decide runs the full decision flow for a user: fetch history, score,
// persist, plan installments when approved, and schedule the ledger webhook.
// The webhook runs in the background and can never fail the request.
func (s *Service) Decide(ctx context.Context, userID string, requestedCents int64) (*DecisionResult, error) {
	transactions, err := s.source.Transactions(ctx, userID)
	if err != nil {
		s.metrics.IncBankFetchFailure()
		return nil, err
	}

	decision, granted, err := scoring.Decide(transactions, requestedCents)
	if err != nil {
		return nil, err
	}

	rec := &models.DecisionRecord{
		UserID:             userID,
		RequestedCents:     requestedCents,
		Decision:           decision,
		AmountGrantedCents: granted,
	}
	if err := s.store.SaveDecision(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist decision: %w", err)
	}

	result := &DecisionResult{Decision: decision, AmountGrantedCents: granted}

	if decision.Approved && granted > 0 {
		plan := &models.Plan{
			DecisionID:   rec.ID,
			UserID:       userID,
			TotalCents:   granted,
			Installments: installments.PlanDefault(granted, s.now()),
		}
		if err := s.store.SavePlan(ctx, plan); err != nil {
			return nil, fmt.Errorf("failed to persist plan: %w", err)
		}
		result.PlanID = &plan.ID

		event := models.ApprovalEvent{
			Event:       "BNPL_APPROVED",
			DecisionID:  rec.ID.String(),
			PlanID:      plan.ID.String(),
			UserID:      userID,
			AmountCents: granted,
		}
		if _, err := s.webhooks.Enqueue(event); err != nil {
			// The decision is already committed; delivery loss is logged,
			// never surfaced to the caller.
			s.log.Errorf("Failed to enqueue approval event for decision %s: %v", rec.ID, err)
		}
	}

	s.metrics.ObserveDecision(decision.Approved, decision.CreditLimitCents)
	s.log.WithFields(logrus.Fields{
		"user_id":            userID,
		"approved":           decision.Approved,
		"credit_limit_cents": decision.CreditLimitCents,
		"score":              decision.Score,
		"score_band":         decision.ScoreBand,
	}).Info("Decision completed")

	return result, nil
}

// Plan retrieves a repayment plan by ID; nil when not found.
func (s *Service) Plan(ctx context.Context, planID uuid.UUID) (*models.Plan, error) {
	return s.store.PlanByID(ctx, planID)
}

// History retrieves the most recent decisions for a user.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]models.DecisionRecord, error) {
	return s.store.DecisionsByUser(ctx, userID, limit)
}

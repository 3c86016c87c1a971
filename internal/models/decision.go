package models

import (
	"time"

	"github.com/google/uuid"
)

// Score bands returned by the credit limit policy.
const (
	BandHighRisk       = "high_risk"
	BandModerateRisk   = "moderate_risk"
	BandAcceptableRisk = "acceptable_risk"
	BandLowRisk        = "low_risk"
)

// CreditDecision is the output of risk assessment for a single request.
type CreditDecision struct {
	Approved         bool        `json:"approved"`
	CreditLimitCents int64       `json:"credit_limit_cents"`
	Score            float64     `json:"score"` // 0.0 (highest risk) to 1.0 (lowest risk)
	ScoreBand        string      `json:"score_band"`
	RiskFactors      RiskFactors `json:"risk_factors"`
}

// DecisionRecord is a persisted credit decision.
type DecisionRecord struct {
	ID                 uuid.UUID      `json:"decision_id"`
	UserID             string         `json:"user_id"`
	RequestedCents     int64          `json:"requested_cents"`
	Decision           CreditDecision `json:"decision"`
	AmountGrantedCents int64          `json:"amount_granted_cents"`
	CreatedAt          time.Time      `json:"created_at"`
}

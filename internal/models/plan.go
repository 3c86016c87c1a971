package models

import (
	"time"

	"github.com/google/uuid"
)

// Installment statuses.
const (
	InstallmentScheduled = "scheduled"
	InstallmentOverdue   = "overdue"
	InstallmentPaid      = "paid"
)

// Installment is a single payment in a repayment plan.
type Installment struct {
	DueDate     time.Time `json:"due_date"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
}

// Plan is a repayment plan for an approved BNPL decision.
type Plan struct {
	ID           uuid.UUID     `json:"plan_id"`
	DecisionID   uuid.UUID     `json:"decision_id"`
	UserID       string        `json:"user_id"`
	TotalCents   int64         `json:"total_cents"`
	Installments []Installment `json:"installments"`
	CreatedAt    time.Time     `json:"created_at"`
}

// OverdueInstallment is a row in the daily overdue sweep report.
type OverdueInstallment struct {
	PlanID      uuid.UUID `json:"plan_id"`
	UserID      string    `json:"user_id"`
	DueDate     time.Time `json:"due_date"`
	AmountCents int64     `json:"amount_cents"`
}

// ApprovalEvent is the payload delivered to the ledger webhook after an
// approved decision.
type ApprovalEvent struct {
	Event       string `json:"event"`
	DecisionID  string `json:"decision_id"`
	PlanID      string `json:"plan_id"`
	UserID      string `json:"user_id"`
	AmountCents int64  `json:"amount_cents"`
}

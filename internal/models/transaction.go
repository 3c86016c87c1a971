package models

import "time"

// Transaction types as reported by the bank feed.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Transaction is a single bank transaction from the external feed.
// Records are immutable; the upstream feed is the source of truth.
type Transaction struct {
	ID           string    `json:"transaction_id"`
	Date         time.Time `json:"date"`
	AmountCents  int64     `json:"amount_cents"`
	Type         string    `json:"type"` // "credit" or "debit"
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Merchant     string    `json:"merchant"`
	BalanceCents int64     `json:"balance_cents"` // balance after this transaction
	NSF          bool      `json:"nsf"`
}

// RiskFactors holds the metrics derived from a user's transaction history.
// It is a pure function of its input transactions.
type RiskFactors struct {
	AvgDailyBalanceCents int64   `json:"avg_daily_balance_cents"`
	TotalIncomeCents     int64   `json:"total_income_cents"`
	TotalSpendCents      int64   `json:"total_spend_cents"`
	IncomeSpendRatio     float64 `json:"income_spend_ratio"`
	NSFCount             int     `json:"nsf_count"`
	TransactionCount     int     `json:"transaction_count"`
	ActiveDays           int     `json:"active_days"`
}

package scoring

import "github.com/geraldhq/bnpl-gateway/internal/models"

// Decide analyzes a transaction history and produces a credit decision plus
// the amount to grant: min(requested, limit) when approved, else 0.
//
// The only recoverable failure is ErrInsufficientData from the analyzer,
// propagated unchanged.
func Decide(transactions []models.Transaction, requestedCents int64) (models.CreditDecision, int64, error) {
	riskFactors, err := AnalyzeTransactions(transactions)
	if err != nil {
		return models.CreditDecision{}, 0, err
	}

	score := CalculateRiskScore(riskFactors)
	approved, limit, band := DetermineCreditLimit(score)

	decision := models.CreditDecision{
		Approved:         approved,
		CreditLimitCents: limit,
		Score:            score,
		ScoreBand:        band,
		RiskFactors:      riskFactors,
	}

	var granted int64
	if approved {
		granted = requestedCents
		if limit < granted {
			granted = limit
		}
	}
	return decision, granted, nil
}

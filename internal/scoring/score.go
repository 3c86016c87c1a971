package scoring

import (
	"math"

	"github.com/geraldhq/bnpl-gateway/internal/models"
)

// Scoring weights and thresholds. Users holding $1000+ average balance are
// considered stable; an income/spend ratio above 1.0 means spending within
// means; any NSF event zeroes the NSF component.
const (
	balanceBaselineCents = 100_000 // $1000

	weightBalance = 0.4
	weightIncome  = 0.4
	weightNSF     = 0.2
)

// CalculateRiskScore maps risk factors to a score from 0.0 (highest risk)
// to 1.0 (lowest risk), rounded to 3 decimals (round-half-to-even).
func CalculateRiskScore(rf models.RiskFactors) float64 {
	balanceScore := clamp01(float64(rf.AvgDailyBalanceCents) / balanceBaselineCents)
	incomeScore := clamp01(rf.IncomeSpendRatio)

	nsfScore := 0.0
	if rf.NSFCount == 0 {
		nsfScore = 1.0
	}

	score := weightBalance*balanceScore + weightIncome*incomeScore + weightNSF*nsfScore
	return math.RoundToEven(score*1000) / 1000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package scoring

import (
	"testing"

	"github.com/geraldhq/bnpl-gateway/internal/models"
)

func TestCalculateRiskScore_PerfectScore(t *testing.T) {
	rf := models.RiskFactors{
		AvgDailyBalanceCents: 150_000, // above the $1000 baseline, clamps to 1.0
		TotalIncomeCents:     900_000,
		TotalSpendCents:      600_000,
		IncomeSpendRatio:     1.5, // clamps to 1.0
		NSFCount:             0,
	}
	if got := CalculateRiskScore(rf); got != 1.0 {
		t.Errorf("CalculateRiskScore() = %v, want 1.0", got)
	}
}

func TestCalculateRiskScore_Components(t *testing.T) {
	tests := []struct {
		name string
		rf   models.RiskFactors
		want float64
	}{
		{
			name: "all components zero",
			rf:   models.RiskFactors{NSFCount: 1},
			want: 0.0,
		},
		{
			name: "only NSF component",
			rf:   models.RiskFactors{NSFCount: 0},
			want: 0.2,
		},
		{
			name: "half balance, no income, NSF present",
			rf:   models.RiskFactors{AvgDailyBalanceCents: 50_000, NSFCount: 2},
			want: 0.2, // 0.4 * 0.5
		},
		{
			name: "negative balance floors at zero",
			rf:   models.RiskFactors{AvgDailyBalanceCents: -20_000, IncomeSpendRatio: 1.0, NSFCount: 0},
			want: 0.6, // 0.4*0 + 0.4*1 + 0.2*1
		},
		{
			name: "rounded to three decimals",
			rf:   models.RiskFactors{AvgDailyBalanceCents: 12_345, NSFCount: 1},
			want: 0.049, // 0.4 * 0.12345 = 0.04938
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateRiskScore(tt.rf); got != tt.want {
				t.Errorf("CalculateRiskScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateRiskScore_MonotonicInBalance(t *testing.T) {
	prev := -1.0
	for _, balance := range []int64{0, 10_000, 25_000, 50_000, 75_000, 100_000, 500_000} {
		rf := models.RiskFactors{AvgDailyBalanceCents: balance, IncomeSpendRatio: 0.5, NSFCount: 1}
		score := CalculateRiskScore(rf)
		if score < prev {
			t.Fatalf("score decreased from %v to %v at balance %d", prev, score, balance)
		}
		prev = score
	}
}

func TestCalculateRiskScore_MonotonicInIncomeRatio(t *testing.T) {
	prev := -1.0
	for _, ratio := range []float64{0.0, 0.25, 0.5, 0.75, 1.0, 1.5, 3.0} {
		rf := models.RiskFactors{AvgDailyBalanceCents: 50_000, IncomeSpendRatio: ratio, NSFCount: 0}
		score := CalculateRiskScore(rf)
		if score < prev {
			t.Fatalf("score decreased from %v to %v at ratio %v", prev, score, ratio)
		}
		prev = score
	}
}

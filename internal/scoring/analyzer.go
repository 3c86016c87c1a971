package scoring

import (
	"errors"
	"sort"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/geraldhq/bnpl-gateway/internal/utils"
)

// ErrInsufficientData means there is no transaction history to analyze.
// It is caller-correctable and maps to a client error at the API boundary.
var ErrInsufficientData = errors.New("no transaction history available")

// AnalyzeTransactions derives risk metrics from a user's transaction history.
//
// Average daily balance carries the last known balance forward over days with
// no transactions. When several transactions share a calendar date, the sort
// is stable, so the last one in original feed order sets that day's balance.
func AnalyzeTransactions(transactions []models.Transaction) (models.RiskFactors, error) {
	if len(transactions) == 0 {
		return models.RiskFactors{}, ErrInsufficientData
	}

	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utils.DateOnly(sorted[i].Date).Before(utils.DateOnly(sorted[j].Date))
	})

	balanceByDate := make(map[time.Time]int64)
	for _, txn := range sorted {
		balanceByDate[utils.DateOnly(txn.Date)] = txn.BalanceCents
	}

	// Carry forward balances for days with no transactions.
	allDates := utils.DateRange(sorted[0].Date, sorted[len(sorted)-1].Date)
	var lastKnown, balanceSum int64
	for _, d := range allDates {
		if b, ok := balanceByDate[d]; ok {
			lastKnown = b
		}
		balanceSum += lastKnown
	}
	avgDailyBalance := utils.FloorDiv(balanceSum, int64(len(allDates)))

	var totalIncome, totalSpend int64
	nsfCount := 0
	activeDates := make(map[time.Time]struct{})
	for _, txn := range transactions {
		switch txn.Type {
		case models.TransactionCredit:
			totalIncome += txn.AmountCents
		case models.TransactionDebit:
			totalSpend += txn.AmountCents
		}
		// Explicit NSF flag or a negative post-transaction balance; a
		// transaction satisfying both counts once.
		if txn.NSF || txn.BalanceCents < 0 {
			nsfCount++
		}
		activeDates[utils.DateOnly(txn.Date)] = struct{}{}
	}

	ratio := 0.0
	if totalSpend > 0 {
		ratio = float64(totalIncome) / float64(totalSpend)
	}

	return models.RiskFactors{
		AvgDailyBalanceCents: avgDailyBalance,
		TotalIncomeCents:     totalIncome,
		TotalSpendCents:      totalSpend,
		IncomeSpendRatio:     ratio,
		NSFCount:             nsfCount,
		TransactionCount:     len(transactions),
		ActiveDays:           len(activeDates),
	}, nil
}

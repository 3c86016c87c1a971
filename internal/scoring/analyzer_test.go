package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func txn(id, date string, amount int64, typ string, balance int64, nsf bool) models.Transaction {
	return models.Transaction{
		ID:           id,
		Date:         day(date),
		AmountCents:  amount,
		Type:         typ,
		BalanceCents: balance,
		NSF:          nsf,
	}
}

func TestAnalyzeTransactions_Empty(t *testing.T) {
	_, err := AnalyzeTransactions(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("AnalyzeTransactions(nil) error = %v, want ErrInsufficientData", err)
	}
}

func TestAnalyzeTransactions_AvgBalanceCarryForward(t *testing.T) {
	// Day 0 ends at $1000, day 5 ends at $800; 11 days total.
	// Days 0-4 carry 100000, days 5-10 carry 80000:
	// floor((5*100000 + 6*80000) / 11) = floor(980000/11) = 89090.
	txns := []models.Transaction{
		txn("1", "2024-01-01", 100, models.TransactionDebit, 100_000, false),
		txn("2", "2024-01-06", 100, models.TransactionDebit, 80_000, false),
	}

	rf, err := AnalyzeTransactions(txns)
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.AvgDailyBalanceCents != 89_090 {
		t.Errorf("AvgDailyBalanceCents = %d, want 89090", rf.AvgDailyBalanceCents)
	}
}

func TestAnalyzeTransactions_LeadingGapCarriesZero(t *testing.T) {
	// The first transaction on day 0 sets the balance for the whole range,
	// so a single transaction yields exactly its own balance.
	rf, err := AnalyzeTransactions([]models.Transaction{
		txn("1", "2024-02-10", 500, models.TransactionCredit, 42_000, false),
	})
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.AvgDailyBalanceCents != 42_000 {
		t.Errorf("AvgDailyBalanceCents = %d, want 42000", rf.AvgDailyBalanceCents)
	}
}

func TestAnalyzeTransactions_IncomeVsSpend(t *testing.T) {
	txns := []models.Transaction{
		txn("1", "2024-01-01", 300_000, models.TransactionCredit, 300_000, false),
		txn("2", "2024-01-02", 200_000, models.TransactionDebit, 100_000, false),
	}

	rf, err := AnalyzeTransactions(txns)
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.TotalIncomeCents != 300_000 {
		t.Errorf("TotalIncomeCents = %d, want 300000", rf.TotalIncomeCents)
	}
	if rf.TotalSpendCents != 200_000 {
		t.Errorf("TotalSpendCents = %d, want 200000", rf.TotalSpendCents)
	}
	if rf.IncomeSpendRatio != 1.5 {
		t.Errorf("IncomeSpendRatio = %v, want 1.5", rf.IncomeSpendRatio)
	}
}

func TestAnalyzeTransactions_ZeroSpendRatio(t *testing.T) {
	rf, err := AnalyzeTransactions([]models.Transaction{
		txn("1", "2024-01-01", 100_000, models.TransactionCredit, 100_000, false),
	})
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.IncomeSpendRatio != 0.0 {
		t.Errorf("IncomeSpendRatio with zero spend = %v, want 0.0", rf.IncomeSpendRatio)
	}
}

func TestAnalyzeTransactions_NSFCount(t *testing.T) {
	txns := []models.Transaction{
		txn("1", "2024-01-01", 100, models.TransactionDebit, -500, false), // negative balance
		txn("2", "2024-01-02", 100, models.TransactionDebit, 1_000, true), // explicit flag
		txn("3", "2024-01-03", 100, models.TransactionDebit, -200, true),  // both, counts once
		txn("4", "2024-01-04", 100, models.TransactionDebit, 2_000, false),
	}

	rf, err := AnalyzeTransactions(txns)
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.NSFCount != 3 {
		t.Errorf("NSFCount = %d, want 3", rf.NSFCount)
	}
}

func TestAnalyzeTransactions_ActivityCounts(t *testing.T) {
	txns := []models.Transaction{
		txn("1", "2024-01-01", 100, models.TransactionDebit, 1_000, false),
		txn("2", "2024-01-01", 100, models.TransactionDebit, 900, false),
		txn("3", "2024-01-05", 100, models.TransactionDebit, 800, false),
	}

	rf, err := AnalyzeTransactions(txns)
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", rf.TransactionCount)
	}
	// Distinct days from the raw input, not the expanded range.
	if rf.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", rf.ActiveDays)
	}
}

func TestAnalyzeTransactions_SameDayLastWins(t *testing.T) {
	// Two transactions on the same date: the later one in feed order sets
	// that day's balance.
	txns := []models.Transaction{
		txn("1", "2024-01-01", 100, models.TransactionDebit, 50_000, false),
		txn("2", "2024-01-01", 100, models.TransactionDebit, 10_000, false),
	}

	rf, err := AnalyzeTransactions(txns)
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	if rf.AvgDailyBalanceCents != 10_000 {
		t.Errorf("AvgDailyBalanceCents = %d, want 10000 (last transaction of the day)", rf.AvgDailyBalanceCents)
	}
}

func TestAnalyzeTransactions_UnsortedInput(t *testing.T) {
	// Feed order is not guaranteed; the expanded range must still cover
	// [min(date), max(date)].
	txns := []models.Transaction{
		txn("2", "2024-01-11", 100, models.TransactionDebit, 20_000, false),
		txn("1", "2024-01-01", 100, models.TransactionDebit, 40_000, false),
	}

	rf, err := AnalyzeTransactions(txns)
	if err != nil {
		t.Fatalf("AnalyzeTransactions() error = %v", err)
	}
	// Days 0-9 at 40000, day 10 at 20000: floor(420000/11) = 38181.
	if rf.AvgDailyBalanceCents != 38_181 {
		t.Errorf("AvgDailyBalanceCents = %d, want 38181", rf.AvgDailyBalanceCents)
	}
}

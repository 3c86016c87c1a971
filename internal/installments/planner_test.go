package installments

import (
	"testing"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/models"
)

var start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestPlan_EqualSplit(t *testing.T) {
	plan := Plan(40_000, 4, 14, start)

	if len(plan) != 4 {
		t.Fatalf("len(plan) = %d, want 4", len(plan))
	}
	var sum int64
	for i, inst := range plan {
		if inst.AmountCents != 10_000 {
			t.Errorf("installment %d = %d, want 10000", i, inst.AmountCents)
		}
		if inst.Status != models.InstallmentScheduled {
			t.Errorf("installment %d status = %s, want scheduled", i, inst.Status)
		}
		sum += inst.AmountCents
	}
	if sum != 40_000 {
		t.Errorf("sum = %d, want 40000", sum)
	}
}

func TestPlan_LastAbsorbsRemainder(t *testing.T) {
	plan := Plan(40_003, 4, 14, start)

	want := []int64{10_000, 10_000, 10_000, 10_003}
	if len(plan) != len(want) {
		t.Fatalf("len(plan) = %d, want %d", len(plan), len(want))
	}
	var sum int64
	for i, inst := range plan {
		if inst.AmountCents != want[i] {
			t.Errorf("installment %d = %d, want %d", i, inst.AmountCents, want[i])
		}
		sum += inst.AmountCents
	}
	if sum != 40_003 {
		t.Errorf("sum = %d, want 40003", sum)
	}
}

func TestPlan_BiweeklyDueDates(t *testing.T) {
	plan := Plan(40_000, 4, 14, start)

	for i, inst := range plan {
		want := start.AddDate(0, 0, i*14)
		if !inst.DueDate.Equal(want) {
			t.Errorf("installment %d due %v, want %v", i, inst.DueDate, want)
		}
	}
	for i := 1; i < len(plan); i++ {
		if !plan[i].DueDate.After(plan[i-1].DueDate) {
			t.Errorf("due dates not strictly increasing at %d", i)
		}
	}
}

func TestPlan_SumInvariantAcrossAmounts(t *testing.T) {
	for _, amount := range []int64{1, 2, 3, 99, 100, 10_001, 40_003, 99_999, 100_000} {
		plan := Plan(amount, 4, 14, start)
		if len(plan) != 4 {
			t.Fatalf("amount %d: len(plan) = %d, want 4", amount, len(plan))
		}
		var sum int64
		for _, inst := range plan {
			sum += inst.AmountCents
		}
		if sum != amount {
			t.Errorf("amount %d: installments sum to %d", amount, sum)
		}
	}
}

func TestPlan_NonPositiveAmount(t *testing.T) {
	if plan := Plan(0, 4, 14, start); len(plan) != 0 {
		t.Errorf("Plan(0) = %v, want empty", plan)
	}
	if plan := Plan(-500, 4, 14, start); len(plan) != 0 {
		t.Errorf("Plan(-500) = %v, want empty", plan)
	}
}

func TestPlanDefault_StartsOneIntervalOut(t *testing.T) {
	decisionDate := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	plan := PlanDefault(40_000, decisionDate)

	wantFirst := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !plan[0].DueDate.Equal(wantFirst) {
		t.Errorf("first due date = %v, want %v", plan[0].DueDate, wantFirst)
	}
}

// Package installments generates BNPL repayment schedules.
package installments

import (
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/geraldhq/bnpl-gateway/internal/utils"
)

// Defaults for the standard pay-in-4 product.
const (
	DefaultCount        = 4
	DefaultIntervalDays = 14
)

// Plan splits an amount into count installments due intervalDays apart,
// starting at start. The last installment absorbs the rounding remainder so
// the amounts sum exactly to the total (remainder < count bounds the drift).
//
// A non-positive amount returns an empty schedule; this is the documented
// declined/zero-grant case, not an error.
func Plan(amountCents int64, count, intervalDays int, start time.Time) []models.Installment {
	if amountCents <= 0 {
		return nil
	}

	start = utils.DateOnly(start)
	base := amountCents / int64(count)
	remainder := amountCents % int64(count)

	plan := make([]models.Installment, 0, count)
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			amount += remainder
		}
		plan = append(plan, models.Installment{
			DueDate:     start.AddDate(0, 0, i*intervalDays),
			AmountCents: amount,
			Status:      models.InstallmentScheduled,
		})
	}
	return plan
}

// PlanDefault generates the standard schedule: 4 bi-weekly installments with
// the first due one interval after the decision date.
func PlanDefault(amountCents int64, decisionDate time.Time) []models.Installment {
	start := utils.DateOnly(decisionDate).AddDate(0, 0, DefaultIntervalDays)
	return Plan(amountCents, DefaultCount, DefaultIntervalDays, start)
}

package scoring

import "github.com/geraldhq/bnpl-gateway/internal/models"

// DetermineCreditLimit maps a risk score to an approval, credit limit and
// score band. Bands are left-closed, right-open:
//
//	[0.0, 0.2) decline        high_risk
//	[0.2, 0.4) $100 limit     moderate_risk
//	[0.4, 0.7) $400 limit     acceptable_risk
//	[0.7, 1.0] $1000 limit    low_risk
func DetermineCreditLimit(score float64) (approved bool, limitCents int64, band string) {
	switch {
	case score < 0.2:
		return false, 0, models.BandHighRisk
	case score < 0.4:
		return true, 10_000, models.BandModerateRisk
	case score < 0.7:
		return true, 40_000, models.BandAcceptableRisk
	default:
		return true, 100_000, models.BandLowRisk
	}
}

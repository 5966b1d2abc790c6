package analysis

// healthBase is the neutral starting score before band adjustments.
const healthBase = 50

// HealthScore composes a 0..100 score from ratio bands: ROE, net margin,
// current ratio, leverage, income growth and Z-score each shift the base.
// The first matching band per ratio wins.
func HealthScore(r Ratios) int {
	score := healthBase

	switch {
	case r.ROE > 15:
		score += 15
	case r.ROE > 10:
		score += 10
	case r.ROE > 5:
		score += 5
	case r.ROE < 0:
		score -= 15
	}

	switch {
	case r.NetMargin > 15:
		score += 10
	case r.NetMargin > 10:
		score += 7
	case r.NetMargin < 0:
		score -= 15
	}

	switch {
	case r.CurrentRatio >= 1.5 && r.CurrentRatio <= 3:
		score += 10
	case r.CurrentRatio > 3:
		score += 5
	case r.CurrentRatio < 1:
		score -= 15
	}

	switch {
	case r.Leverage < 2:
		score += 10
	case r.Leverage > 3:
		score -= 10
	}

	switch {
	case r.IncomeGrowth > 10:
		score += 10
	case r.IncomeGrowth > 5:
		score += 5
	case r.IncomeGrowth < -10:
		score -= 10
	}

	switch {
	case r.ZScore > 2.9:
		score += 10
	case r.ZScore < 1.8:
		score -= 20
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package audit

// ComputeScore derives the composite score from the finding list. Only
// executed tests enter the denominator; an UNAVAILABLE test says nothing
// about the books either way. WARNING contributes nothing unless the half-pass
// option is set.
func ComputeScore(findings []Finding, opts Options) (float64, RiskLevel) {
	var executed int
	var passed float64
	for _, f := range findings {
		if !f.Status.Executed() {
			continue
		}
		executed++
		switch f.Status {
		case StatusPass:
			passed++
		case StatusWarning:
			if opts.WarningCountsAsHalfPass {
				passed += 0.5
			}
		}
	}

	if executed == 0 {
		return 0, RiskCritical
	}

	score := 100 * passed / float64(executed)
	return score, RiskLevelFor(score)
}

// RiskLevelFor maps a composite score to its discrete risk tier
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 90:
		return RiskLow
	case score >= 70:
		return RiskMedium
	case score >= 50:
		return RiskHigh
	default:
		return RiskCritical
	}
}

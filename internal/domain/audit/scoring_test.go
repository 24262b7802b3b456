package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusFindings(statuses ...Status) []Finding {
	findings := make([]Finding, 0, len(statuses))
	for _, s := range statuses {
		findings = append(findings, Finding{
			Category: CategoryIntegrity,
			TestName: "test",
			Severity: SeverityLow,
			Status:   s,
		})
	}
	return findings
}

func TestComputeScore(t *testing.T) {
	opts := DefaultOptions()

	t.Run("all passing scores one hundred", func(t *testing.T) {
		score, risk := ComputeScore(statusFindings(StatusPass, StatusPass, StatusPass), opts)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, RiskLow, risk)
	})

	t.Run("warnings count as not passed", func(t *testing.T) {
		score, _ := ComputeScore(statusFindings(StatusPass, StatusWarning, StatusPass, StatusPass), opts)
		assert.Equal(t, 75.0, score)
	})

	t.Run("warnings can count as half a pass", func(t *testing.T) {
		half := opts
		half.WarningCountsAsHalfPass = true
		score, _ := ComputeScore(statusFindings(StatusPass, StatusWarning), half)
		assert.Equal(t, 75.0, score)
	})

	t.Run("unavailable tests leave the denominator", func(t *testing.T) {
		score, risk := ComputeScore(statusFindings(StatusPass, StatusPass, StatusUnavailable, StatusUnavailable), opts)
		assert.Equal(t, 100.0, score)
		assert.Equal(t, RiskLow, risk)
	})

	t.Run("no executed tests is critical", func(t *testing.T) {
		score, risk := ComputeScore(statusFindings(StatusUnavailable), opts)
		assert.Equal(t, 0.0, score)
		assert.Equal(t, RiskCritical, risk)
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		score, _ := ComputeScore(statusFindings(StatusFail, StatusFail, StatusFail), opts)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
		assert.Equal(t, 0.0, score)
	})
}

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{100, RiskLow},
		{90, RiskLow},
		{89.99, RiskMedium},
		{70, RiskMedium},
		{69.99, RiskHigh},
		{50, RiskHigh},
		{49.99, RiskCritical},
		{0, RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.score), "score %.2f", tt.score)
	}
}

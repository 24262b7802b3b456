package audit

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the discrete tier derived from the composite score
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// IsValid checks if the risk level is a valid RiskLevel
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// String returns the string representation
func (r RiskLevel) String() string {
	return string(r)
}

// Recommendation is one generated follow-up action
type Recommendation struct {
	Category       Category `json:"category"`
	Priority       Severity `json:"priority"`
	Recommendation string   `json:"recommendation"`
	Action         string   `json:"action"`
}

// AuditReport is the immutable result of one audit run. A fresh report is
// produced per invocation; it is never updated incrementally.
type AuditReport struct {
	ID                  uuid.UUID  `json:"id"`
	CompanyID           uuid.UUID  `json:"company_id"`
	PeriodID            uuid.UUID  `json:"period_id"`
	PeriodTitle         string     `json:"period_title"`
	PreviousPeriodID    *uuid.UUID `json:"previous_period_id,omitempty"`
	PreviousPeriodTitle string     `json:"previous_period_title,omitempty"`
	GeneratedAt         time.Time  `json:"generated_at"`

	Checks   []CheckKind `json:"checks"`
	Findings []Finding   `json:"findings"`

	OverallScore float64   `json:"overall_score"`
	RiskLevel    RiskLevel `json:"risk_level"`

	Recommendations []Recommendation `json:"recommendations"`

	// Counts by status across all findings
	PassCount        int `json:"pass_count"`
	WarningCount     int `json:"warning_count"`
	FailCount        int `json:"fail_count"`
	UnavailableCount int `json:"unavailable_count"`

	// Incomplete is set when the run was cancelled before all checkers
	// finished; the report then covers only the completed checkers.
	Incomplete bool `json:"incomplete"`

	ExecutionDurationMs int64 `json:"execution_duration_ms"`
}

// KeyFindings returns the findings that demand attention (anything not PASS)
func (r *AuditReport) KeyFindings() []Finding {
	var key []Finding
	for _, f := range r.Findings {
		if f.Status != StatusPass {
			key = append(key, f)
		}
	}
	return key
}

// FindingsByCategory returns the findings of one category in report order
func (r *AuditReport) FindingsByCategory(c Category) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// countStatuses fills the per-status counters from the finding list
func (r *AuditReport) countStatuses() {
	r.PassCount, r.WarningCount, r.FailCount, r.UnavailableCount = 0, 0, 0, 0
	for _, f := range r.Findings {
		switch f.Status {
		case StatusPass:
			r.PassCount++
		case StatusWarning:
			r.WarningCount++
		case StatusFail:
			r.FailCount++
		case StatusUnavailable:
			r.UnavailableCount++
		}
	}
}

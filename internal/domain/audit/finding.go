package audit

// Category represents the audit area a finding belongs to
type Category string

const (
	CategoryIntegrity Category = "integrity"
	CategoryFraud     Category = "fraud"
	CategoryRatio     Category = "ratio"
	CategoryCashflow  Category = "cashflow"
)

// IsValid checks if the category is a valid Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryIntegrity, CategoryFraud, CategoryRatio, CategoryCashflow:
		return true
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// categoryOrder fixes the merge order of findings in the assembled report.
var categoryOrder = []Category{CategoryIntegrity, CategoryFraud, CategoryRatio, CategoryCashflow}

// Severity grades how serious a finding is
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsValid checks if the severity is a valid Severity
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// Status is the outcome of one executed test
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
	// StatusUnavailable marks a test whose inputs were missing (zero
	// denominator, absent account group, no previous period). The test is
	// not counted as executed when scoring.
	StatusUnavailable Status = "UNAVAILABLE"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPass, StatusWarning, StatusFail, StatusUnavailable:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Executed reports whether the test actually ran against usable data
func (s Status) Executed() bool {
	return s != StatusUnavailable
}

// Evidence is the free-form payload backing a finding: document references,
// account codes, numeric deltas. Values must be deterministic for a given
// snapshot; JSON serialization orders keys lexicographically.
type Evidence map[string]any

// Finding is one detected issue (or an explicit pass) from a single test.
// Each test emits exactly one finding per run.
type Finding struct {
	Category    Category `json:"category"`
	TestName    string   `json:"test_name"`
	Severity    Severity `json:"severity"`
	Status      Status   `json:"status"`
	Description string   `json:"description"`
	Evidence    Evidence `json:"evidence,omitempty"`
}

// NewFinding creates a finding for one test outcome
func NewFinding(category Category, testName string, status Status, severity Severity, description string, evidence Evidence) Finding {
	return Finding{
		Category:    category,
		TestName:    testName,
		Severity:    severity,
		Status:      status,
		Description: description,
		Evidence:    evidence,
	}
}

// passFinding is the shorthand for a clean test outcome
func passFinding(category Category, testName, description string, evidence Evidence) Finding {
	return NewFinding(category, testName, StatusPass, SeverityLow, description, evidence)
}

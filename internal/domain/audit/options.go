package audit

import (
	"fmt"

	"github.com/fintegrity/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckKind selects one audit area for a run
type CheckKind string

const (
	CheckIntegrity CheckKind = "integrity"
	CheckFraud     CheckKind = "fraud"
	CheckRatios    CheckKind = "ratios"
	CheckCashflow  CheckKind = "cashflow"
)

// IsValid checks if the kind is a valid CheckKind
func (k CheckKind) IsValid() bool {
	switch k {
	case CheckIntegrity, CheckFraud, CheckRatios, CheckCashflow:
		return true
	}
	return false
}

// String returns the string representation
func (k CheckKind) String() string {
	return string(k)
}

// AllChecks returns every check kind in run order
func AllChecks() []CheckKind {
	return []CheckKind{CheckIntegrity, CheckFraud, CheckRatios, CheckCashflow}
}

// ParseChecks parses a list of check names, rejecting unknown ones
func ParseChecks(names []string) ([]CheckKind, error) {
	if len(names) == 0 {
		return AllChecks(), nil
	}
	kinds := make([]CheckKind, 0, len(names))
	for _, n := range names {
		k := CheckKind(n)
		if !k.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown check name: %q", n))
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Options configures one audit run. The thresholds are business assumptions
// with no documented derivation; they are configuration defaults, not fixed
// algorithmic constants.
type Options struct {
	// Checks selects which audit areas run; empty means all.
	Checks []CheckKind

	// LargeTransactionLimit is the ceiling above which a single line item
	// amount is flagged.
	LargeTransactionLimit decimal.Decimal

	// NearDuplicateThreshold is the similarity ratio (0..1] above which two
	// document descriptions count as near-duplicates.
	NearDuplicateThreshold float64

	// RoundNumberGranularity flags non-zero amounts that are exact
	// multiples of this value.
	RoundNumberGranularity int64

	// RoundNumberWarnCount is the round-amount count above which the test
	// degrades from informational to WARNING.
	RoundNumberWarnCount int

	// EndOfPeriodWindowDays is the size of the end-of-period rush window.
	EndOfPeriodWindowDays int

	// Tolerance is the maximum absolute debit/credit difference still
	// considered balanced (one minor currency unit by default).
	Tolerance decimal.Decimal

	// WarningCountsAsHalfPass makes WARNING outcomes contribute half a
	// passed test to the composite score instead of nothing.
	WarningCountsAsHalfPass bool
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{
		Checks:                 AllChecks(),
		LargeTransactionLimit:  decimal.NewFromInt(50_000_000),
		NearDuplicateThreshold: 0.9,
		RoundNumberGranularity: 10,
		RoundNumberWarnCount:   10,
		EndOfPeriodWindowDays:  7,
		Tolerance:              decimal.NewFromFloat(0.01),
	}
}

// Validate rejects malformed options before any computation runs
func (o *Options) Validate() error {
	for _, k := range o.Checks {
		if !k.IsValid() {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown check name: %q", k))
		}
	}
	if o.LargeTransactionLimit.IsNegative() || o.LargeTransactionLimit.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "large transaction limit must be positive")
	}
	if o.NearDuplicateThreshold <= 0 || o.NearDuplicateThreshold > 1 {
		return shared.NewDomainError("INVALID_INPUT", "near-duplicate threshold must be in (0, 1]")
	}
	if o.RoundNumberGranularity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "round-number granularity must be positive")
	}
	if o.RoundNumberWarnCount < 0 {
		return shared.NewDomainError("INVALID_INPUT", "round-number warning count cannot be negative")
	}
	if o.EndOfPeriodWindowDays <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "end-of-period window must be positive")
	}
	if o.Tolerance.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "tolerance cannot be negative")
	}
	return nil
}

// wantsCheck reports whether the given check kind was requested
func (o *Options) wantsCheck(k CheckKind) bool {
	if len(o.Checks) == 0 {
		return true
	}
	for _, c := range o.Checks {
		if c == k {
			return true
		}
	}
	return false
}

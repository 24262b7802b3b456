package audit

import (
	"context"
	"testing"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatioChecker() *RatioChecker {
	classifier := ledger.NewAccountClassifier(ledger.DefaultClassifierRules())
	return NewRatioChecker(DefaultOptions(), classifier)
}

func TestRatioChecker(t *testing.T) {
	checker := newRatioChecker()

	t.Run("healthy books pass the single-period ratios", func(t *testing.T) {
		snap := buildSnapshot(cleanBooks(), nil, false)
		findings := checker.Check(context.Background(), snap)
		require.Len(t, findings, 8)

		for _, name := range []string{"current_ratio", "quick_ratio", "debt_to_equity", "debt_to_assets", "asset_turnover"} {
			f, ok := findByName(findings, name)
			require.True(t, ok, name)
			assert.Equal(t, StatusPass, f.Status, name)
		}
	})

	t.Run("comparative ratios need a previous period", func(t *testing.T) {
		snap := buildSnapshot(cleanBooks(), nil, false)
		findings := checker.Check(context.Background(), snap)

		for _, name := range []string{"return_on_assets", "return_on_equity", "inventory_turnover"} {
			f, ok := findByName(findings, name)
			require.True(t, ok, name)
			assert.Equal(t, StatusUnavailable, f.Status, name)
			assert.Equal(t, "no_previous_period", f.Evidence["reason"])
		}
	})

	t.Run("comparative ratios compute with a previous period", func(t *testing.T) {
		previous := []lineSpec{
			{code: "111", debit: 10000, desc: "Opening cash"},
			{code: "411", credit: 10000, desc: "Opening capital"},
		}
		snap := buildSnapshot(cleanBooks(), previous, true)
		findings := checker.Check(context.Background(), snap)

		for _, name := range []string{"return_on_assets", "return_on_equity", "inventory_turnover"} {
			f, ok := findByName(findings, name)
			require.True(t, ok, name)
			assert.Equal(t, StatusPass, f.Status, name)
			assert.True(t, f.Status.Executed())
		}
	})

	t.Run("zero denominators are unavailable not wrong", func(t *testing.T) {
		// Cash sales only: no liabilities, no equity anywhere in the period.
		snap := buildSnapshot(numberedDocs(1, 2), nil, false)
		findings := checker.Check(context.Background(), snap)

		for _, name := range []string{"current_ratio", "quick_ratio", "debt_to_equity"} {
			f, ok := findByName(findings, name)
			require.True(t, ok, name)
			assert.Equal(t, StatusUnavailable, f.Status, name)
			assert.Equal(t, "zero_denominator", f.Evidence["reason"])
		}
	})

	t.Run("empty period computes nothing", func(t *testing.T) {
		snap := buildSnapshot(nil, nil, false)
		findings := checker.Check(context.Background(), snap)
		require.Len(t, findings, 8)
		for _, f := range findings {
			assert.Equal(t, StatusUnavailable, f.Status, f.TestName)
		}
	})

	t.Run("thin liquidity warns", func(t *testing.T) {
		docs := []docSpec{
			// Purchase on credit far larger than the cash on hand.
			{num: 1, date: "2025-01-05", desc: "Capital", lines: []lineSpec{
				{code: "111", debit: 1000, desc: "Cash"},
				{code: "411", credit: 1000, desc: "Capital"},
			}},
			{num: 2, date: "2025-01-06", desc: "Large credit purchase", lines: []lineSpec{
				{code: "141", debit: 500, desc: "Inventory"},
				{code: "211", credit: 500, desc: "Payable"},
			}},
			{num: 3, date: "2025-01-07", desc: "Cash spent on expenses", lines: []lineSpec{
				{code: "611", debit: 900, desc: "Costs"},
				{code: "111", credit: 900, desc: "Cash out"},
			}},
		}
		snap := buildSnapshot(docs, nil, false)
		findings := checker.Check(context.Background(), snap)

		// Current assets 600 against current liabilities 500.
		current, ok := findByName(findings, "current_ratio")
		require.True(t, ok)
		assert.Equal(t, StatusWarning, current.Status)
		assert.Equal(t, SeverityMedium, current.Severity)

		// Quick assets 100 against current liabilities 500.
		quick, ok := findByName(findings, "quick_ratio")
		require.True(t, ok)
		assert.Equal(t, StatusWarning, quick.Status)
		assert.Equal(t, SeverityHigh, quick.Severity)
	})

	t.Run("negative equity is graded critical", func(t *testing.T) {
		docs := []docSpec{
			{num: 1, date: "2025-01-05", desc: "Capital withdrawal", lines: []lineSpec{
				{code: "411", debit: 5000, desc: "Equity drawn down"},
				{code: "111", credit: 5000, desc: "Cash out"},
			}},
			{num: 2, date: "2025-01-06", desc: "Loan received", lines: []lineSpec{
				{code: "111", debit: 2000, desc: "Cash in"},
				{code: "211", credit: 2000, desc: "Payable"},
			}},
		}
		snap := buildSnapshot(docs, nil, false)
		findings := checker.Check(context.Background(), snap)

		de, ok := findByName(findings, "debt_to_equity")
		require.True(t, ok)
		assert.Equal(t, StatusWarning, de.Status)
		assert.Equal(t, SeverityCritical, de.Severity)
	})
}

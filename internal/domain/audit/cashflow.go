package audit

import (
	"context"
	"fmt"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CashflowChecker reconstructs an indirect-method cash flow statement from
// the period's ledger movements. Line items are period movements, so the
// working-capital deltas fall out of the sums directly; no opening balances
// are required.
type CashflowChecker struct {
	opts       Options
	classifier *ledger.AccountClassifier
}

// NewCashflowChecker creates a new CashflowChecker
func NewCashflowChecker(opts Options, classifier *ledger.AccountClassifier) *CashflowChecker {
	return &CashflowChecker{opts: opts, classifier: classifier}
}

// Check reconstructs the statement and grades the operating section
func (c *CashflowChecker) Check(ctx context.Context, snap *ledger.Snapshot) []Finding {
	if ctx.Err() != nil {
		return nil
	}
	if len(snap.Items) == 0 {
		return []Finding{NewFinding(CategoryCashflow, "operating_cash_flow", StatusUnavailable, SeverityLow,
			"No line items in the period; cash flow not reconstructed",
			Evidence{"total_items": 0})}
	}

	rules := c.classifier.Rules()
	balances := computeBalances(snap, c.classifier, snap.Items)

	depreciation := ledger.TotalsByPrefix(snap.Items, rules.DepreciationPrefixes).NetDebit()
	investing := ledger.TotalsByPrefix(snap.Items, rules.InvestingPrefixes)
	financing := ledger.TotalsByPrefix(snap.Items, rules.FinancingPrefixes)

	// Working-capital delta: growth in current assets and inventory consumes
	// cash, growth in current liabilities releases it. Cash accounts count
	// toward the delta like any other current asset; the direct cash movement
	// is reported alongside for reference.
	cashDelta := ledger.TotalsByPrefix(snap.Items, rules.CashPrefixes).NetDebit()
	currentAssetDelta := balances.CurrentAssets
	currentLiabilityDelta := balances.CurrentLiabilities
	workingCapitalDelta := currentAssetDelta.Sub(currentLiabilityDelta)

	netIncome := balances.NetIncome()
	operating := netIncome.Add(depreciation).Sub(workingCapitalDelta)

	// Net debit growth in investing accounts is cash paid out; net credit
	// growth in financing accounts is cash raised.
	investingFlow := investing.NetDebit().Neg()
	financingFlow := financing.NetCredit()
	netFlow := operating.Add(investingFlow).Add(financingFlow)

	evidence := Evidence{
		"cash_delta":             cashDelta,
		"net_income":             netIncome,
		"depreciation_addback":   depreciation,
		"current_asset_delta":    currentAssetDelta,
		"current_liability_delta": currentLiabilityDelta,
		"working_capital_delta":  workingCapitalDelta,
		"operating_cash_flow":    operating,
		"investing_cash_flow":    investingFlow,
		"financing_cash_flow":    financingFlow,
		"net_cash_flow":          netFlow,
		"cash_flow_pattern":      cashFlowPattern(operating, investingFlow, financingFlow),
	}

	switch {
	case operating.IsNegative() && netIncome.GreaterThan(decimal.Zero):
		return []Finding{NewFinding(CategoryCashflow, "operating_cash_flow", StatusWarning, SeverityHigh,
			"Reported profit is not backed by operating cash", evidence)}
	case operating.IsNegative():
		return []Finding{NewFinding(CategoryCashflow, "operating_cash_flow", StatusWarning, SeverityMedium,
			"Operations consumed cash this period", evidence)}
	default:
		return []Finding{passFinding(CategoryCashflow, "operating_cash_flow",
			fmt.Sprintf("Operating cash flow %s is non-negative", operating.StringFixed(2)), evidence)}
	}
}

// cashFlowPattern labels the sign combination of the three statement
// sections, reading it the way an analyst would: positive operations with
// investing outflows and financing outflows is a business funding its own
// growth and repaying capital.
func cashFlowPattern(operating, investing, financing decimal.Decimal) string {
	opPos := !operating.IsNegative()
	invPos := !investing.IsNegative()
	finPos := !financing.IsNegative()

	switch {
	case opPos && !invPos && !finPos:
		return "growth/self-funded"
	case opPos && !invPos && finPos:
		return "growth/externally funded"
	case opPos && invPos && !finPos:
		return "divesting to deleverage"
	case opPos && invPos && finPos:
		return "accumulating liquidity"
	case !opPos && !invPos && finPos:
		return "startup/financed expansion"
	case !opPos && invPos && !finPos:
		return "distressed/liquidating"
	case !opPos && invPos && finPos:
		return "restructuring"
	default:
		return "drawing down reserves"
	}
}

package audit

import (
	"context"
	"fmt"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// periodBalances aggregates the net movements one period contributes to each
// functional bucket. Assets, inventory, expenses and cost of goods sold are
// debit-nature; liabilities, equity and revenue are credit-nature.
type periodBalances struct {
	CurrentAssets      decimal.Decimal
	Inventory          decimal.Decimal
	CurrentLiabilities decimal.Decimal
	Assets             decimal.Decimal
	Liabilities        decimal.Decimal
	Equity             decimal.Decimal
	Revenue            decimal.Decimal
	Expenses           decimal.Decimal
	CostOfGoodsSold    decimal.Decimal
}

// NetIncome returns revenue less expenses for the period
func (b periodBalances) NetIncome() decimal.Decimal {
	return b.Revenue.Sub(b.Expenses)
}

// computeBalances classifies every line item once and accumulates the
// functional totals the ratio and cash-flow computations share.
func computeBalances(snap *ledger.Snapshot, classifier *ledger.AccountClassifier, items []ledger.LineItem) periodBalances {
	var b periodBalances
	rules := classifier.Rules()

	currentAssets := ledger.TotalsByPrefix(items, rules.CurrentAssetPrefixes)
	inventory := ledger.TotalsByPrefix(items, rules.InventoryPrefixes)
	currentLiabilities := ledger.TotalsByPrefix(items, rules.CurrentLiabilityPrefixes)
	cogs := ledger.TotalsByPrefix(items, rules.COGSPrefixes)

	assets := snap.TotalsByGroup(classifier, items, ledger.GroupAsset)
	liabilities := snap.TotalsByGroup(classifier, items, ledger.GroupLiability)
	equity := snap.TotalsByGroup(classifier, items, ledger.GroupEquity)
	revenue := snap.TotalsByGroup(classifier, items, ledger.GroupRevenue)
	expenses := snap.TotalsByGroup(classifier, items, ledger.GroupExpense)

	b.CurrentAssets = currentAssets.NetDebit().Add(inventory.NetDebit())
	b.Inventory = inventory.NetDebit()
	b.CurrentLiabilities = currentLiabilities.NetCredit()
	b.Assets = assets.NetDebit()
	b.Liabilities = liabilities.NetCredit()
	b.Equity = equity.NetCredit()
	b.Revenue = revenue.NetCredit()
	b.Expenses = expenses.NetDebit()
	b.CostOfGoodsSold = cogs.NetDebit()
	return b
}

// RatioChecker computes the standard financial ratios over the snapshot and
// grades each one against its interpretation band.
type RatioChecker struct {
	opts       Options
	classifier *ledger.AccountClassifier
}

// NewRatioChecker creates a new RatioChecker
func NewRatioChecker(opts Options, classifier *ledger.AccountClassifier) *RatioChecker {
	return &RatioChecker{opts: opts, classifier: classifier}
}

// Check computes every ratio and returns one finding per ratio
func (c *RatioChecker) Check(ctx context.Context, snap *ledger.Snapshot) []Finding {
	if ctx.Err() != nil {
		return nil
	}
	current := computeBalances(snap, c.classifier, snap.Items)

	var previous periodBalances
	hasPrevious := snap.HasPrevious()
	if hasPrevious {
		previous = computeBalances(snap, c.classifier, snap.PreviousItems)
	}

	findings := make([]Finding, 0, 8)
	findings = append(findings, c.currentRatio(current))
	findings = append(findings, c.quickRatio(current))
	findings = append(findings, c.debtToEquity(current))
	findings = append(findings, c.debtToAssets(current))
	findings = append(findings, c.returnOnAssets(current, previous, hasPrevious))
	findings = append(findings, c.returnOnEquity(current, previous, hasPrevious))
	findings = append(findings, c.inventoryTurnover(current, previous, hasPrevious))
	findings = append(findings, c.assetTurnover(current))
	return findings
}

// ratioOf divides numerator by denominator, reporting false on a zero
// denominator instead of guessing a value.
func ratioOf(num, den decimal.Decimal) (float64, bool) {
	if den.IsZero() {
		return 0, false
	}
	v, _ := num.Div(den).Float64()
	return v, true
}

// unavailableRatio is the shared outcome for a ratio whose denominator is zero
func unavailableRatio(testName, denominator string) Finding {
	return NewFinding(CategoryRatio, testName, StatusUnavailable, SeverityLow,
		fmt.Sprintf("Cannot compute: %s is zero", denominator),
		Evidence{"reason": "zero_denominator", "denominator": denominator})
}

// noPreviousPeriod is the shared outcome for a ratio that needs comparatives
func noPreviousPeriod(testName string) Finding {
	return NewFinding(CategoryRatio, testName, StatusUnavailable, SeverityLow,
		"Cannot compute: no previous period loaded",
		Evidence{"reason": "no_previous_period"})
}

func (c *RatioChecker) currentRatio(b periodBalances) Finding {
	ratio, ok := ratioOf(b.CurrentAssets, b.CurrentLiabilities)
	if !ok {
		return unavailableRatio("current_ratio", "current liabilities")
	}
	evidence := Evidence{
		"ratio":               ratio,
		"current_assets":      b.CurrentAssets,
		"current_liabilities": b.CurrentLiabilities,
	}
	switch {
	case ratio < 1:
		evidence["interpretation"] = "current liabilities exceed current assets"
		return NewFinding(CategoryRatio, "current_ratio", StatusWarning, SeverityHigh,
			fmt.Sprintf("Current ratio %.2f is below 1.0", ratio), evidence)
	case ratio < 1.5:
		evidence["interpretation"] = "thin short-term liquidity cushion"
		return NewFinding(CategoryRatio, "current_ratio", StatusWarning, SeverityMedium,
			fmt.Sprintf("Current ratio %.2f is below 1.5", ratio), evidence)
	default:
		evidence["interpretation"] = "adequate short-term liquidity"
		return passFinding(CategoryRatio, "current_ratio",
			fmt.Sprintf("Current ratio %.2f", ratio), evidence)
	}
}

func (c *RatioChecker) quickRatio(b periodBalances) Finding {
	quickAssets := b.CurrentAssets.Sub(b.Inventory)
	ratio, ok := ratioOf(quickAssets, b.CurrentLiabilities)
	if !ok {
		return unavailableRatio("quick_ratio", "current liabilities")
	}
	evidence := Evidence{
		"ratio":               ratio,
		"quick_assets":        quickAssets,
		"current_liabilities": b.CurrentLiabilities,
	}
	switch {
	case ratio < 0.5:
		evidence["interpretation"] = "liquid assets cover under half of short-term obligations"
		return NewFinding(CategoryRatio, "quick_ratio", StatusWarning, SeverityHigh,
			fmt.Sprintf("Quick ratio %.2f is below 0.5", ratio), evidence)
	case ratio < 1:
		evidence["interpretation"] = "liquidity depends on inventory conversion"
		return NewFinding(CategoryRatio, "quick_ratio", StatusWarning, SeverityMedium,
			fmt.Sprintf("Quick ratio %.2f is below 1.0", ratio), evidence)
	default:
		evidence["interpretation"] = "obligations covered without selling inventory"
		return passFinding(CategoryRatio, "quick_ratio",
			fmt.Sprintf("Quick ratio %.2f", ratio), evidence)
	}
}

func (c *RatioChecker) debtToEquity(b periodBalances) Finding {
	ratio, ok := ratioOf(b.Liabilities, b.Equity)
	if !ok {
		return unavailableRatio("debt_to_equity", "equity")
	}
	evidence := Evidence{
		"ratio":       ratio,
		"liabilities": b.Liabilities,
		"equity":      b.Equity,
	}
	switch {
	case b.Equity.IsNegative():
		evidence["interpretation"] = "equity is negative; liabilities exceed assets"
		return NewFinding(CategoryRatio, "debt_to_equity", StatusWarning, SeverityCritical,
			"Equity is negative", evidence)
	case ratio > 2:
		evidence["interpretation"] = "leverage more than twice the equity base"
		return NewFinding(CategoryRatio, "debt_to_equity", StatusWarning, SeverityHigh,
			fmt.Sprintf("Debt-to-equity %.2f exceeds 2.0", ratio), evidence)
	case ratio > 1:
		evidence["interpretation"] = "liabilities exceed equity"
		return NewFinding(CategoryRatio, "debt_to_equity", StatusWarning, SeverityMedium,
			fmt.Sprintf("Debt-to-equity %.2f exceeds 1.0", ratio), evidence)
	default:
		evidence["interpretation"] = "conservative capital structure"
		return passFinding(CategoryRatio, "debt_to_equity",
			fmt.Sprintf("Debt-to-equity %.2f", ratio), evidence)
	}
}

func (c *RatioChecker) debtToAssets(b periodBalances) Finding {
	ratio, ok := ratioOf(b.Liabilities, b.Assets)
	if !ok {
		return unavailableRatio("debt_to_assets", "total assets")
	}
	evidence := Evidence{
		"ratio":       ratio,
		"liabilities": b.Liabilities,
		"assets":      b.Assets,
	}
	switch {
	case ratio > 0.7:
		evidence["interpretation"] = "over 70% of assets financed by debt"
		return NewFinding(CategoryRatio, "debt_to_assets", StatusWarning, SeverityHigh,
			fmt.Sprintf("Debt-to-assets %.2f exceeds 0.7", ratio), evidence)
	case ratio > 0.5:
		evidence["interpretation"] = "more than half the asset base is debt-financed"
		return NewFinding(CategoryRatio, "debt_to_assets", StatusWarning, SeverityMedium,
			fmt.Sprintf("Debt-to-assets %.2f exceeds 0.5", ratio), evidence)
	default:
		evidence["interpretation"] = "asset base predominantly equity-financed"
		return passFinding(CategoryRatio, "debt_to_assets",
			fmt.Sprintf("Debt-to-assets %.2f", ratio), evidence)
	}
}

func (c *RatioChecker) returnOnAssets(current, previous periodBalances, hasPrevious bool) Finding {
	if !hasPrevious {
		return noPreviousPeriod("return_on_assets")
	}
	avgAssets := current.Assets.Add(previous.Assets).Div(decimal.NewFromInt(2))
	ratio, ok := ratioOf(current.NetIncome(), avgAssets)
	if !ok {
		return unavailableRatio("return_on_assets", "average total assets")
	}
	evidence := Evidence{
		"ratio":          ratio,
		"net_income":     current.NetIncome(),
		"average_assets": avgAssets,
	}
	switch {
	case ratio < 0:
		evidence["interpretation"] = "the asset base produced a loss"
		return NewFinding(CategoryRatio, "return_on_assets", StatusWarning, SeverityHigh,
			fmt.Sprintf("Return on assets %.2f%% is negative", ratio*100), evidence)
	case ratio < 0.05:
		evidence["interpretation"] = "asset base earns under 5%"
		return NewFinding(CategoryRatio, "return_on_assets", StatusWarning, SeverityMedium,
			fmt.Sprintf("Return on assets %.2f%% is below 5%%", ratio*100), evidence)
	default:
		evidence["interpretation"] = "asset base productive"
		return passFinding(CategoryRatio, "return_on_assets",
			fmt.Sprintf("Return on assets %.2f%%", ratio*100), evidence)
	}
}

func (c *RatioChecker) returnOnEquity(current, previous periodBalances, hasPrevious bool) Finding {
	if !hasPrevious {
		return noPreviousPeriod("return_on_equity")
	}
	avgEquity := current.Equity.Add(previous.Equity).Div(decimal.NewFromInt(2))
	ratio, ok := ratioOf(current.NetIncome(), avgEquity)
	if !ok {
		return unavailableRatio("return_on_equity", "average equity")
	}
	evidence := Evidence{
		"ratio":          ratio,
		"net_income":     current.NetIncome(),
		"average_equity": avgEquity,
	}
	switch {
	case ratio < 0:
		evidence["interpretation"] = "owners' capital produced a loss"
		return NewFinding(CategoryRatio, "return_on_equity", StatusWarning, SeverityHigh,
			fmt.Sprintf("Return on equity %.2f%% is negative", ratio*100), evidence)
	case ratio < 0.1:
		evidence["interpretation"] = "equity earns under 10%"
		return NewFinding(CategoryRatio, "return_on_equity", StatusWarning, SeverityMedium,
			fmt.Sprintf("Return on equity %.2f%% is below 10%%", ratio*100), evidence)
	default:
		evidence["interpretation"] = "equity adequately rewarded"
		return passFinding(CategoryRatio, "return_on_equity",
			fmt.Sprintf("Return on equity %.2f%%", ratio*100), evidence)
	}
}

func (c *RatioChecker) inventoryTurnover(current, previous periodBalances, hasPrevious bool) Finding {
	if !hasPrevious {
		return noPreviousPeriod("inventory_turnover")
	}
	avgInventory := current.Inventory.Add(previous.Inventory).Div(decimal.NewFromInt(2))
	ratio, ok := ratioOf(current.CostOfGoodsSold, avgInventory)
	if !ok {
		return unavailableRatio("inventory_turnover", "average inventory")
	}
	evidence := Evidence{
		"ratio":              ratio,
		"cost_of_goods_sold": current.CostOfGoodsSold,
		"average_inventory":  avgInventory,
	}
	if ratio < 2 {
		evidence["interpretation"] = "inventory turns over fewer than twice per period"
		return NewFinding(CategoryRatio, "inventory_turnover", StatusWarning, SeverityMedium,
			fmt.Sprintf("Inventory turnover %.2f is below 2.0", ratio), evidence)
	}
	evidence["interpretation"] = "inventory cycles at a healthy pace"
	return passFinding(CategoryRatio, "inventory_turnover",
		fmt.Sprintf("Inventory turnover %.2f", ratio), evidence)
}

func (c *RatioChecker) assetTurnover(b periodBalances) Finding {
	ratio, ok := ratioOf(b.Revenue, b.Assets)
	if !ok {
		return unavailableRatio("asset_turnover", "total assets")
	}
	evidence := Evidence{
		"ratio":   ratio,
		"revenue": b.Revenue,
		"assets":  b.Assets,
	}
	if ratio < 0.5 {
		evidence["interpretation"] = "revenue below half the asset base"
		return NewFinding(CategoryRatio, "asset_turnover", StatusWarning, SeverityMedium,
			fmt.Sprintf("Asset turnover %.2f is below 0.5", ratio), evidence)
	}
	evidence["interpretation"] = "assets generate revenue efficiently"
	return passFinding(CategoryRatio, "asset_turnover",
		fmt.Sprintf("Asset turnover %.2f", ratio), evidence)
}

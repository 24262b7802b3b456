package ledger

import "strings"

// AccountSubgroup tags an account with the functional bucket the ratio and
// cash-flow computations aggregate over.
type AccountSubgroup string

const (
	SubgroupNone             AccountSubgroup = ""
	SubgroupCurrentAsset     AccountSubgroup = "CurrentAsset"
	SubgroupInventory        AccountSubgroup = "Inventory"
	SubgroupCurrentLiability AccountSubgroup = "CurrentLiability"
	SubgroupCOGS             AccountSubgroup = "CostOfGoodsSold"
	SubgroupDepreciation     AccountSubgroup = "Depreciation"
	SubgroupInvesting        AccountSubgroup = "Investing"
	SubgroupFinancing        AccountSubgroup = "Financing"
)

// AccountClass is the result of classifying an account code.
type AccountClass struct {
	Group    AccountGroup    `json:"group"`
	Subgroup AccountSubgroup `json:"subgroup"`
}

// ClassifierRules holds the code-prefix conventions of a chart of accounts.
// All prefix sets are configurable; the defaults follow the standard chart
// the engine was designed against (class 1 assets, 2 liabilities, 4 equity).
type ClassifierRules struct {
	CashPrefixes             []string
	CurrentAssetPrefixes     []string
	InventoryPrefixes        []string
	CurrentLiabilityPrefixes []string
	AssetPrefixes            []string
	LiabilityPrefixes        []string
	EquityPrefixes           []string
	RevenuePrefixes          []string
	ExpensePrefixes          []string
	COGSPrefixes             []string
	DepreciationPrefixes     []string
	InvestingPrefixes        []string
	FinancingPrefixes        []string
}

// DefaultClassifierRules returns the default prefix conventions
func DefaultClassifierRules() ClassifierRules {
	return ClassifierRules{
		CashPrefixes:             []string{"11"},
		CurrentAssetPrefixes:     []string{"11", "12", "13"},
		InventoryPrefixes:        []string{"14"},
		CurrentLiabilityPrefixes: []string{"21", "22"},
		AssetPrefixes:            []string{"1"},
		LiabilityPrefixes:        []string{"2"},
		EquityPrefixes:           []string{"4"},
		RevenuePrefixes:          []string{"5"},
		ExpensePrefixes:          []string{"6"},
		COGSPrefixes:             []string{"61"},
		DepreciationPrefixes:     []string{"69"},
		InvestingPrefixes:        []string{"31", "32", "33"},
		FinancingPrefixes:        []string{"41", "42", "43", "44"},
	}
}

// AccountClassifier maps account codes to groups and subgroups. It is built
// once per run and shared read-only by all checkers, replacing per-component
// prefix heuristics.
type AccountClassifier struct {
	rules ClassifierRules
}

// NewAccountClassifier creates a classifier with the given rules
func NewAccountClassifier(rules ClassifierRules) *AccountClassifier {
	return &AccountClassifier{rules: rules}
}

// Rules returns the prefix rules the classifier was built with
func (c *AccountClassifier) Rules() ClassifierRules {
	return c.rules
}

// Classify maps an account code to its group and subgroup. Subgroup prefixes
// are checked before the broader group prefixes so that, for example, "14"
// resolves to Asset/Inventory rather than plain Asset.
func (c *AccountClassifier) Classify(code string) AccountClass {
	switch {
	case hasAnyPrefix(code, c.rules.InventoryPrefixes):
		return AccountClass{Group: GroupAsset, Subgroup: SubgroupInventory}
	case hasAnyPrefix(code, c.rules.CurrentAssetPrefixes):
		return AccountClass{Group: GroupAsset, Subgroup: SubgroupCurrentAsset}
	case hasAnyPrefix(code, c.rules.CurrentLiabilityPrefixes):
		return AccountClass{Group: GroupLiability, Subgroup: SubgroupCurrentLiability}
	case hasAnyPrefix(code, c.rules.InvestingPrefixes):
		return AccountClass{Group: GroupAsset, Subgroup: SubgroupInvesting}
	case hasAnyPrefix(code, c.rules.FinancingPrefixes):
		return AccountClass{Group: GroupEquity, Subgroup: SubgroupFinancing}
	case hasAnyPrefix(code, c.rules.DepreciationPrefixes):
		return AccountClass{Group: GroupExpense, Subgroup: SubgroupDepreciation}
	case hasAnyPrefix(code, c.rules.COGSPrefixes):
		return AccountClass{Group: GroupExpense, Subgroup: SubgroupCOGS}
	case hasAnyPrefix(code, c.rules.AssetPrefixes):
		return AccountClass{Group: GroupAsset}
	case hasAnyPrefix(code, c.rules.LiabilityPrefixes):
		return AccountClass{Group: GroupLiability}
	case hasAnyPrefix(code, c.rules.EquityPrefixes):
		return AccountClass{Group: GroupEquity}
	case hasAnyPrefix(code, c.rules.RevenuePrefixes):
		return AccountClass{Group: GroupRevenue}
	case hasAnyPrefix(code, c.rules.ExpensePrefixes):
		return AccountClass{Group: GroupExpense}
	}
	return AccountClass{Group: GroupUnknown}
}

// GroupOf resolves the group of an account, preferring the group recorded on
// the chart of accounts and falling back to the code prefix rules.
func (c *AccountClassifier) GroupOf(acct *Account) AccountGroup {
	if acct != nil && acct.Group != "" && acct.Group != GroupUnknown {
		return acct.Group
	}
	if acct == nil {
		return GroupUnknown
	}
	return c.Classify(acct.Code).Group
}

// InSubgroup reports whether an account code belongs to the given subgroup
func (c *AccountClassifier) InSubgroup(code string, sub AccountSubgroup) bool {
	return c.Classify(code).Subgroup == sub
}

func hasAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

package ledger

import "github.com/google/uuid"

// AccountGroup represents the accounting nature of an account
type AccountGroup string

const (
	GroupAsset     AccountGroup = "Asset"
	GroupLiability AccountGroup = "Liability"
	GroupEquity    AccountGroup = "Equity"
	GroupRevenue   AccountGroup = "Revenue"
	GroupExpense   AccountGroup = "Expense"
	GroupUnknown   AccountGroup = "Unknown"
)

// IsValid checks if the group is a valid AccountGroup
func (g AccountGroup) IsValid() bool {
	switch g {
	case GroupAsset, GroupLiability, GroupEquity, GroupRevenue, GroupExpense, GroupUnknown:
		return true
	}
	return false
}

// String returns the string representation
func (g AccountGroup) String() string {
	return string(g)
}

// IsDebitNature reports whether balances of this group grow on the debit
// side (assets and expenses). Liability, equity and revenue balances grow
// on the credit side.
func (g AccountGroup) IsDebitNature() bool {
	return g == GroupAsset || g == GroupExpense
}

// Account is one chart-of-accounts entry. Codes are hierarchical strings
// grouped by prefix (e.g. "11xx" for current assets).
type Account struct {
	ID    uuid.UUID    `json:"id"`
	Code  string       `json:"code"`
	Name  string       `json:"name"`
	Group AccountGroup `json:"group"`
	Level int          `json:"level"`
}

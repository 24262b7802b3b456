package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the immutable, period-scoped ledger bundle one audit run
// operates on. It is built once by the loader and shared read-only by all
// checkers; the engine never writes back to the underlying store.
type Snapshot struct {
	CompanyID      uuid.UUID
	Period         Period
	PreviousPeriod *Period

	Documents     []Document
	Items         []LineItem
	PreviousItems []LineItem
	Accounts      []Account

	accountsByCode  map[string]*Account
	itemsByDocument map[uuid.UUID][]*LineItem
}

// SnapshotLoader supplies the ledger snapshot for one company/period.
// Implementations must return an error wrapping shared.ErrNotFound when the
// company or period does not resolve.
type SnapshotLoader interface {
	Load(ctx context.Context, companyID, periodID uuid.UUID, previousPeriodID *uuid.UUID) (*Snapshot, error)
}

// NewSnapshot builds a snapshot and its per-run lookup tables. The lookup
// tables replace any cross-run caches: they live exactly as long as the
// snapshot itself.
func NewSnapshot(
	companyID uuid.UUID,
	period Period,
	previous *Period,
	documents []Document,
	items []LineItem,
	previousItems []LineItem,
	accounts []Account,
) *Snapshot {
	s := &Snapshot{
		CompanyID:      companyID,
		Period:         period,
		PreviousPeriod: previous,
		Documents:      documents,
		Items:          items,
		PreviousItems:  previousItems,
		Accounts:       accounts,
	}

	s.accountsByCode = make(map[string]*Account, len(accounts))
	for i := range s.Accounts {
		s.accountsByCode[s.Accounts[i].Code] = &s.Accounts[i]
	}

	s.itemsByDocument = make(map[uuid.UUID][]*LineItem, len(documents))
	for i := range s.Items {
		it := &s.Items[i]
		s.itemsByDocument[it.DocumentID] = append(s.itemsByDocument[it.DocumentID], it)
	}

	return s
}

// HasPrevious reports whether comparative data for a previous period is loaded
func (s *Snapshot) HasPrevious() bool {
	return s.PreviousPeriod != nil
}

// AccountByCode resolves an account from the chart of accounts
func (s *Snapshot) AccountByCode(code string) (*Account, bool) {
	a, ok := s.accountsByCode[code]
	return a, ok
}

// ItemsOf returns the line items belonging to a document
func (s *Snapshot) ItemsOf(documentID uuid.UUID) []*LineItem {
	return s.itemsByDocument[documentID]
}

// ItemTotals holds summed debit and credit amounts.
type ItemTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// NetDebit returns Debit - Credit (the net balance of debit-nature accounts)
func (t ItemTotals) NetDebit() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// NetCredit returns Credit - Debit (the net balance of credit-nature accounts)
func (t ItemTotals) NetCredit() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

// Add accumulates another item's amounts
func (t ItemTotals) Add(debit, credit decimal.Decimal) ItemTotals {
	return ItemTotals{Debit: t.Debit.Add(debit), Credit: t.Credit.Add(credit)}
}

// PeriodTotals sums debit and credit across every line item in the period
func (s *Snapshot) PeriodTotals() ItemTotals {
	return TotalsWhere(s.Items, nil)
}

// TotalsWhere sums debit and credit over items whose account code satisfies
// the match predicate. A nil predicate matches everything.
func TotalsWhere(items []LineItem, match func(code string) bool) ItemTotals {
	var t ItemTotals
	t.Debit = decimal.Zero
	t.Credit = decimal.Zero
	for i := range items {
		if match != nil && !match(items[i].AccountCode) {
			continue
		}
		t = t.Add(items[i].Debit, items[i].Credit)
	}
	return t
}

// TotalsByPrefix sums debit and credit over items whose account code starts
// with any of the given prefixes.
func TotalsByPrefix(items []LineItem, prefixes []string) ItemTotals {
	return TotalsWhere(items, func(code string) bool {
		return hasAnyPrefix(code, prefixes)
	})
}

// TotalsByGroup sums debit and credit over items whose account resolves to
// the given group. Items referencing unknown codes are classified by prefix.
func (s *Snapshot) TotalsByGroup(c *AccountClassifier, items []LineItem, g AccountGroup) ItemTotals {
	return TotalsWhere(items, func(code string) bool {
		if acct, ok := s.accountsByCode[code]; ok {
			return c.GroupOf(acct) == g
		}
		return c.Classify(code).Group == g
	})
}

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document is one journal entry header. Document numbers are expected to be
// unique and continuous within a period, but violations are audit findings
// rather than invariant failures.
type Document struct {
	ID             uuid.UUID       `json:"id"`
	PeriodID       uuid.UUID       `json:"period_id"`
	DocumentNumber int64           `json:"document_number"`
	DocumentDate   time.Time       `json:"document_date"`
	Description    string          `json:"description"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
}

// TotalValue returns the combined debit and credit value of the header
func (d Document) TotalValue() decimal.Decimal {
	return d.TotalDebit.Add(d.TotalCredit)
}

// LineItem is one journal entry line. Amounts are non-negative by
// double-entry convention; sign is conveyed by the column, not the value.
// The engine does not assume exactly one side is non-zero.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	RowNumber   int             `json:"row_number"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

package audit

import (
	"time"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mustDate parses an ISO date for fixtures
func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// lineSpec describes one fixture journal line
type lineSpec struct {
	code   string
	debit  float64
	credit float64
	desc   string
}

// docSpec describes one fixture document with its lines. Header totals are
// derived from the lines unless overridden.
type docSpec struct {
	num         int64
	date        string
	desc        string
	lines       []lineSpec
	headerDebit *float64
}

func newTestPeriod() ledger.Period {
	return ledger.Period{
		ID:        uuid.MustParse("00000000-0000-0000-0000-0000000000aa"),
		CompanyID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Title:     "2025-01",
		StartDate: mustDate("2025-01-01"),
		EndDate:   mustDate("2025-01-31"),
	}
}

func newPreviousPeriod() ledger.Period {
	return ledger.Period{
		ID:        uuid.MustParse("00000000-0000-0000-0000-0000000000bb"),
		CompanyID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Title:     "2024-12",
		StartDate: mustDate("2024-12-01"),
		EndDate:   mustDate("2024-12-31"),
	}
}

func newTestAccounts() []ledger.Account {
	return []ledger.Account{
		{ID: uuid.New(), Code: "111", Name: "Cash", Group: ledger.GroupAsset, Level: 3},
		{ID: uuid.New(), Code: "131", Name: "Trade receivables", Group: ledger.GroupAsset, Level: 3},
		{ID: uuid.New(), Code: "141", Name: "Merchandise inventory", Group: ledger.GroupAsset, Level: 3},
		{ID: uuid.New(), Code: "211", Name: "Trade payables", Group: ledger.GroupLiability, Level: 3},
		{ID: uuid.New(), Code: "311", Name: "Machinery and equipment", Group: ledger.GroupAsset, Level: 3},
		{ID: uuid.New(), Code: "411", Name: "Share capital", Group: ledger.GroupEquity, Level: 3},
		{ID: uuid.New(), Code: "421", Name: "Long-term loans", Group: ledger.GroupLiability, Level: 3},
		{ID: uuid.New(), Code: "511", Name: "Sales revenue", Group: ledger.GroupRevenue, Level: 3},
		{ID: uuid.New(), Code: "611", Name: "Cost of goods sold", Group: ledger.GroupExpense, Level: 3},
		{ID: uuid.New(), Code: "691", Name: "Depreciation expense", Group: ledger.GroupExpense, Level: 3},
	}
}

// buildSnapshot assembles a snapshot from document specs over the fixture
// chart of accounts. Deterministic UUIDs are not needed; checkers key
// evidence off document numbers.
func buildSnapshot(docs []docSpec, previousItems []lineSpec, withPrevious bool) *ledger.Snapshot {
	period := newTestPeriod()

	var documents []ledger.Document
	var items []ledger.LineItem
	for _, d := range docs {
		docID := uuid.New()
		var totalDebit, totalCredit decimal.Decimal
		for row, l := range d.lines {
			items = append(items, ledger.LineItem{
				ID:          uuid.New(),
				DocumentID:  docID,
				RowNumber:   row + 1,
				AccountCode: l.code,
				Debit:       decimal.NewFromFloat(l.debit),
				Credit:      decimal.NewFromFloat(l.credit),
				Description: l.desc,
			})
			totalDebit = totalDebit.Add(decimal.NewFromFloat(l.debit))
			totalCredit = totalCredit.Add(decimal.NewFromFloat(l.credit))
		}
		if d.headerDebit != nil {
			totalDebit = decimal.NewFromFloat(*d.headerDebit)
		}
		documents = append(documents, ledger.Document{
			ID:             docID,
			PeriodID:       period.ID,
			DocumentNumber: d.num,
			DocumentDate:   mustDate(d.date),
			Description:    d.desc,
			TotalDebit:     totalDebit,
			TotalCredit:    totalCredit,
		})
	}

	var previous *ledger.Period
	var prevItems []ledger.LineItem
	if withPrevious {
		p := newPreviousPeriod()
		previous = &p
		for row, l := range previousItems {
			prevItems = append(prevItems, ledger.LineItem{
				ID:          uuid.New(),
				DocumentID:  uuid.New(),
				RowNumber:   row + 1,
				AccountCode: l.code,
				Debit:       decimal.NewFromFloat(l.debit),
				Credit:      decimal.NewFromFloat(l.credit),
				Description: l.desc,
			})
		}
	}

	return ledger.NewSnapshot(
		period.CompanyID, period, previous,
		documents, items, prevItems, newTestAccounts(),
	)
}

// cleanBooks is a small, fully balanced period used as the healthy baseline:
// a capital injection, a purchase on credit, a cash sale with its cost and a
// machinery purchase that reinvests part of the raised capital.
func cleanBooks() []docSpec {
	return []docSpec{
		{num: 1, date: "2025-01-03", desc: "Owner capital contribution", lines: []lineSpec{
			{code: "111", debit: 20000, desc: "Cash received"},
			{code: "411", credit: 20000, desc: "Share capital issued"},
		}},
		{num: 2, date: "2025-01-08", desc: "Merchandise purchase on credit", lines: []lineSpec{
			{code: "141", debit: 24000, desc: "Inventory received"},
			{code: "211", credit: 24000, desc: "Supplier invoice 4471"},
		}},
		{num: 3, date: "2025-01-15", desc: "Cash sale of merchandise", lines: []lineSpec{
			{code: "111", debit: 70200, desc: "Cash from customer"},
			{code: "511", credit: 70200, desc: "Revenue recognized"},
		}},
		{num: 4, date: "2025-01-16", desc: "Relief of inventory for the cash sale", lines: []lineSpec{
			{code: "611", debit: 23400, desc: "Cost booked"},
			{code: "141", credit: 23400, desc: "Inventory relieved"},
		}},
		{num: 5, date: "2025-01-20", desc: "Partial supplier payment", lines: []lineSpec{
			{code: "211", debit: 9300, desc: "Payable settled"},
			{code: "111", credit: 9300, desc: "Cash paid"},
		}},
		{num: 6, date: "2025-01-10", desc: "Workshop machinery bought outright", lines: []lineSpec{
			{code: "311", debit: 25003, desc: "Machinery received"},
			{code: "111", credit: 25003, desc: "Cash paid to vendor"},
		}},
	}
}

// findByName locates the single finding a test emitted
func findByName(findings []Finding, name string) (Finding, bool) {
	for _, f := range findings {
		if f.TestName == name {
			return f, true
		}
	}
	return Finding{}, false
}

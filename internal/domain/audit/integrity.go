package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// IntegrityChecker validates the structural invariants of a period's
// documents and line items. It is a pure function over the snapshot.
type IntegrityChecker struct {
	opts Options
}

// NewIntegrityChecker creates a new IntegrityChecker
func NewIntegrityChecker(opts Options) *IntegrityChecker {
	return &IntegrityChecker{opts: opts}
}

// Check runs every integrity test and returns one finding per test
func (c *IntegrityChecker) Check(ctx context.Context, snap *ledger.Snapshot) []Finding {
	findings := make([]Finding, 0, 7)
	findings = append(findings, c.checkDocumentBalance(ctx, snap))
	findings = append(findings, c.checkOrphanHeaders(ctx, snap))
	findings = append(findings, c.checkEmptyDescriptions(ctx, snap))
	findings = append(findings, c.checkNegativeAmounts(ctx, snap))
	findings = append(findings, c.checkMissingAccounts(ctx, snap))
	findings = append(findings, c.checkDocumentDates(ctx, snap))
	findings = append(findings, c.checkPeriodBalance(snap))
	return findings
}

// checkDocumentBalance verifies that each document's items sum to equal
// debit and credit within tolerance. Header totals are cross-checked against
// the item sums; a header that disagrees with its own items is reported even
// when the items themselves balance.
func (c *IntegrityChecker) checkDocumentBalance(ctx context.Context, snap *ledger.Snapshot) Finding {
	type unbalanced struct {
		DocumentNumber int64           `json:"document_number"`
		DocumentID     string          `json:"document_id"`
		TotalDebit     decimal.Decimal `json:"total_debit"`
		TotalCredit    decimal.Decimal `json:"total_credit"`
		Difference     decimal.Decimal `json:"difference"`
	}

	var unbalancedDocs []unbalanced
	var headerMismatches []unbalanced

	for i := range snap.Documents {
		if ctx.Err() != nil {
			break
		}
		doc := &snap.Documents[i]
		items := snap.ItemsOf(doc.ID)
		if len(items) == 0 {
			// Covered by the orphan header test.
			continue
		}

		var itemDebit, itemCredit decimal.Decimal
		for _, it := range items {
			itemDebit = itemDebit.Add(it.Debit)
			itemCredit = itemCredit.Add(it.Credit)
		}

		diff := itemDebit.Sub(itemCredit)
		if diff.Abs().GreaterThan(c.opts.Tolerance) {
			unbalancedDocs = append(unbalancedDocs, unbalanced{
				DocumentNumber: doc.DocumentNumber,
				DocumentID:     doc.ID.String(),
				TotalDebit:     itemDebit,
				TotalCredit:    itemCredit,
				Difference:     diff,
			})
			continue
		}

		headerDiff := doc.TotalDebit.Sub(itemDebit).Abs().Add(doc.TotalCredit.Sub(itemCredit).Abs())
		if headerDiff.GreaterThan(c.opts.Tolerance) {
			headerMismatches = append(headerMismatches, unbalanced{
				DocumentNumber: doc.DocumentNumber,
				DocumentID:     doc.ID.String(),
				TotalDebit:     doc.TotalDebit,
				TotalCredit:    doc.TotalCredit,
				Difference:     headerDiff,
			})
		}
	}

	evidence := Evidence{
		"unbalanced_count":  len(unbalancedDocs),
		"total_documents":   len(snap.Documents),
		"header_mismatches": len(headerMismatches),
	}
	if len(unbalancedDocs) > 0 {
		evidence["unbalanced_documents"] = unbalancedDocs
	}
	if len(headerMismatches) > 0 {
		evidence["header_mismatch_documents"] = headerMismatches
	}

	switch {
	case len(unbalancedDocs) > 0:
		return NewFinding(CategoryIntegrity, "balance_check", StatusFail, SeverityHigh,
			fmt.Sprintf("%d document(s) have unequal debit and credit totals", len(unbalancedDocs)), evidence)
	case len(headerMismatches) > 0:
		return NewFinding(CategoryIntegrity, "balance_check", StatusWarning, SeverityMedium,
			fmt.Sprintf("%d document header(s) disagree with their item sums", len(headerMismatches)), evidence)
	default:
		return passFinding(CategoryIntegrity, "balance_check",
			"All documents are balanced", evidence)
	}
}

// checkOrphanHeaders reports documents that carry no line items
func (c *IntegrityChecker) checkOrphanHeaders(ctx context.Context, snap *ledger.Snapshot) Finding {
	var orphans []int64
	for i := range snap.Documents {
		if ctx.Err() != nil {
			break
		}
		if len(snap.ItemsOf(snap.Documents[i].ID)) == 0 {
			orphans = append(orphans, snap.Documents[i].DocumentNumber)
		}
	}

	evidence := Evidence{
		"orphan_count":    len(orphans),
		"total_documents": len(snap.Documents),
	}
	if len(orphans) > 0 {
		evidence["orphan_document_numbers"] = orphans
		return NewFinding(CategoryIntegrity, "orphan_headers", StatusFail, SeverityHigh,
			fmt.Sprintf("%d document(s) have no line items", len(orphans)), evidence)
	}
	return passFinding(CategoryIntegrity, "orphan_headers",
		"Every document carries at least one line item", evidence)
}

// checkEmptyDescriptions reports line items with a null or blank description.
// Non-blocking: a missing narrative is a documentation gap, not corruption.
func (c *IntegrityChecker) checkEmptyDescriptions(ctx context.Context, snap *ledger.Snapshot) Finding {
	type emptyItem struct {
		DocumentNumber int64  `json:"document_number"`
		RowNumber      int    `json:"row_number"`
		AccountCode    string `json:"account_code"`
	}

	docNumbers := documentNumberIndex(snap)

	var empty []emptyItem
	for i := range snap.Items {
		if ctx.Err() != nil {
			break
		}
		it := &snap.Items[i]
		if strings.TrimSpace(it.Description) == "" {
			empty = append(empty, emptyItem{
				DocumentNumber: docNumbers[it.DocumentID.String()],
				RowNumber:      it.RowNumber,
				AccountCode:    it.AccountCode,
			})
		}
	}

	evidence := Evidence{
		"empty_description_count": len(empty),
		"total_items":             len(snap.Items),
	}
	if len(empty) > 0 {
		evidence["empty_description_items"] = empty
		return NewFinding(CategoryIntegrity, "empty_description", StatusWarning, SeverityMedium,
			fmt.Sprintf("%d line item(s) have no description", len(empty)), evidence)
	}
	return passFinding(CategoryIntegrity, "empty_description",
		"All line items carry a description", evidence)
}

// checkNegativeAmounts reports line items with a negative debit or credit.
// Double-entry amounts must be non-negative; sign lives in the column.
func (c *IntegrityChecker) checkNegativeAmounts(ctx context.Context, snap *ledger.Snapshot) Finding {
	type negativeItem struct {
		DocumentNumber int64           `json:"document_number"`
		RowNumber      int             `json:"row_number"`
		AccountCode    string          `json:"account_code"`
		Debit          decimal.Decimal `json:"debit"`
		Credit         decimal.Decimal `json:"credit"`
	}

	docNumbers := documentNumberIndex(snap)

	var negatives []negativeItem
	for i := range snap.Items {
		if ctx.Err() != nil {
			break
		}
		it := &snap.Items[i]
		if it.Debit.IsNegative() || it.Credit.IsNegative() {
			negatives = append(negatives, negativeItem{
				DocumentNumber: docNumbers[it.DocumentID.String()],
				RowNumber:      it.RowNumber,
				AccountCode:    it.AccountCode,
				Debit:          it.Debit,
				Credit:         it.Credit,
			})
		}
	}

	evidence := Evidence{"negative_amount_count": len(negatives)}
	if len(negatives) > 0 {
		evidence["negative_amount_items"] = negatives
		return NewFinding(CategoryIntegrity, "negative_amounts", StatusFail, SeverityHigh,
			fmt.Sprintf("%d line item(s) carry negative amounts", len(negatives)), evidence)
	}
	return passFinding(CategoryIntegrity, "negative_amounts",
		"No negative debit or credit amounts", evidence)
}

// checkMissingAccounts reports line items whose account code does not
// resolve against the chart of accounts.
func (c *IntegrityChecker) checkMissingAccounts(ctx context.Context, snap *ledger.Snapshot) Finding {
	type missingItem struct {
		DocumentNumber int64  `json:"document_number"`
		RowNumber      int    `json:"row_number"`
		AccountCode    string `json:"account_code"`
	}

	docNumbers := documentNumberIndex(snap)

	var missing []missingItem
	for i := range snap.Items {
		if ctx.Err() != nil {
			break
		}
		it := &snap.Items[i]
		_, ok := snap.AccountByCode(it.AccountCode)
		if it.AccountCode == "" || !ok {
			missing = append(missing, missingItem{
				DocumentNumber: docNumbers[it.DocumentID.String()],
				RowNumber:      it.RowNumber,
				AccountCode:    it.AccountCode,
			})
		}
	}

	evidence := Evidence{"missing_account_count": len(missing)}
	if len(missing) > 0 {
		evidence["missing_account_items"] = missing
		return NewFinding(CategoryIntegrity, "missing_account", StatusFail, SeverityHigh,
			fmt.Sprintf("%d line item(s) reference no resolvable account", len(missing)), evidence)
	}
	return passFinding(CategoryIntegrity, "missing_account",
		"Every line item resolves to a chart-of-accounts entry", evidence)
}

// checkDocumentDates reports documents dated outside the period bounds
func (c *IntegrityChecker) checkDocumentDates(ctx context.Context, snap *ledger.Snapshot) Finding {
	type datedDoc struct {
		DocumentNumber int64  `json:"document_number"`
		DocumentDate   string `json:"document_date"`
	}

	var outOfRange []datedDoc
	for i := range snap.Documents {
		if ctx.Err() != nil {
			break
		}
		doc := &snap.Documents[i]
		if !snap.Period.Contains(doc.DocumentDate) {
			outOfRange = append(outOfRange, datedDoc{
				DocumentNumber: doc.DocumentNumber,
				DocumentDate:   doc.DocumentDate.Format("2006-01-02"),
			})
		}
	}

	evidence := Evidence{
		"out_of_period_count": len(outOfRange),
		"period_start":        snap.Period.StartDate.Format("2006-01-02"),
		"period_end":          snap.Period.EndDate.Format("2006-01-02"),
	}
	if len(outOfRange) > 0 {
		evidence["out_of_period_documents"] = outOfRange
		return NewFinding(CategoryIntegrity, "out_of_period_date", StatusWarning, SeverityMedium,
			fmt.Sprintf("%d document(s) dated outside the period", len(outOfRange)), evidence)
	}
	return passFinding(CategoryIntegrity, "out_of_period_date",
		"All document dates fall within the period", evidence)
}

// checkPeriodBalance verifies debits equal credits across the whole period.
// Kept independent of the per-document test: item-level errors can cancel
// inside a document yet still skew the period total, and vice versa.
func (c *IntegrityChecker) checkPeriodBalance(snap *ledger.Snapshot) Finding {
	totals := snap.PeriodTotals()
	diff := totals.NetDebit()

	evidence := Evidence{
		"total_debit":  totals.Debit,
		"total_credit": totals.Credit,
		"difference":   diff,
	}
	if diff.Abs().GreaterThan(c.opts.Tolerance) {
		return NewFinding(CategoryIntegrity, "period_balance_sum", StatusFail, SeverityHigh,
			"Period-level debit and credit totals are unequal", evidence)
	}
	return passFinding(CategoryIntegrity, "period_balance_sum",
		"Period-level debits equal credits", evidence)
}

// documentNumberIndex maps document IDs to their business numbers for
// evidence rendering. Keyed by string to keep evidence JSON deterministic.
func documentNumberIndex(snap *ledger.Snapshot) map[string]int64 {
	idx := make(map[string]int64, len(snap.Documents))
	for i := range snap.Documents {
		idx[snap.Documents[i].ID.String()] = snap.Documents[i].DocumentNumber
	}
	return idx
}

package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// FraudChecker scans the period for known manipulation patterns. Every test
// is a heuristic: hits are leads for an auditor, not proof of fraud.
type FraudChecker struct {
	opts Options
}

// NewFraudChecker creates a new FraudChecker
func NewFraudChecker(opts Options) *FraudChecker {
	return &FraudChecker{opts: opts}
}

// Check runs every fraud pattern test and returns one finding per test
func (c *FraudChecker) Check(ctx context.Context, snap *ledger.Snapshot) []Finding {
	findings := make([]Finding, 0, 5)
	findings = append(findings, c.checkExactDuplicates(ctx, snap))
	findings = append(findings, c.checkNearDuplicates(ctx, snap))
	findings = append(findings, c.checkThresholdHits(ctx, snap))
	findings = append(findings, c.checkRoundNumbers(ctx, snap))
	findings = append(findings, c.checkEndOfPeriodRush(ctx, snap))
	return findings
}

// duplicateKey fingerprints the header fields that make two documents
// interchangeable: number, date and totals. Descriptions are deliberately
// excluded; a re-keyed narrative does not make a copy less of a copy.
func duplicateKey(doc *ledger.Document) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%s",
		doc.DocumentNumber,
		doc.DocumentDate.Format("2006-01-02"),
		doc.TotalDebit.String(),
		doc.TotalCredit.String(),
	)))
	return hex.EncodeToString(h[:])
}

// checkExactDuplicates groups documents by header fingerprint and reports
// every group recorded more than once.
func (c *FraudChecker) checkExactDuplicates(ctx context.Context, snap *ledger.Snapshot) Finding {
	type dupGroup struct {
		DocumentNumber int64    `json:"document_number"`
		DocumentDate   string   `json:"document_date"`
		Count          int      `json:"count"`
		DocumentIDs    []string `json:"document_ids"`
	}

	byKey := make(map[string][]int, len(snap.Documents))
	var keys []string
	for i := range snap.Documents {
		if ctx.Err() != nil {
			break
		}
		k := duplicateKey(&snap.Documents[i])
		if len(byKey[k]) == 0 {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], i)
	}
	sort.Strings(keys)

	var groups []dupGroup
	for _, k := range keys {
		idxs := byKey[k]
		if len(idxs) < 2 {
			continue
		}
		ids := make([]string, 0, len(idxs))
		for _, i := range idxs {
			ids = append(ids, snap.Documents[i].ID.String())
		}
		sort.Strings(ids)
		first := &snap.Documents[idxs[0]]
		groups = append(groups, dupGroup{
			DocumentNumber: first.DocumentNumber,
			DocumentDate:   first.DocumentDate.Format("2006-01-02"),
			Count:          len(idxs),
			DocumentIDs:    ids,
		})
	}

	evidence := Evidence{
		"duplicate_group_count": len(groups),
		"total_documents":       len(snap.Documents),
	}
	if len(groups) > 0 {
		evidence["duplicate_groups"] = groups
		return NewFinding(CategoryFraud, "exact_duplicate", StatusFail, SeverityHigh,
			fmt.Sprintf("%d group(s) of documents share identical header fields", len(groups)), evidence)
	}
	return passFinding(CategoryFraud, "exact_duplicate",
		"No documents with identical header fields", evidence)
}

// checkNearDuplicates pairs documents whose descriptions exceed the
// similarity threshold. Each document joins at most one pair, so a cluster of
// n copies yields n/2 pairs rather than n*(n-1)/2.
func (c *FraudChecker) checkNearDuplicates(ctx context.Context, snap *ledger.Snapshot) Finding {
	type simPair struct {
		FirstNumber  int64   `json:"first_number"`
		SecondNumber int64   `json:"second_number"`
		Similarity   float64 `json:"similarity"`
		Description  string  `json:"description"`
	}

	// Stable order: documents sorted by number, ties broken by ID.
	order := make([]int, 0, len(snap.Documents))
	for i := range snap.Documents {
		if strings.TrimSpace(snap.Documents[i].Description) != "" {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := &snap.Documents[order[a]], &snap.Documents[order[b]]
		if da.DocumentNumber != db.DocumentNumber {
			return da.DocumentNumber < db.DocumentNumber
		}
		return da.ID.String() < db.ID.String()
	})

	consumed := make([]bool, len(order))
	var pairs []simPair
	for a := 0; a < len(order); a++ {
		if ctx.Err() != nil {
			break
		}
		if consumed[a] {
			continue
		}
		da := &snap.Documents[order[a]]
		for b := a + 1; b < len(order); b++ {
			if consumed[b] {
				continue
			}
			db := &snap.Documents[order[b]]
			// Identical headers are the exact-duplicate test's business.
			if duplicateKey(da) == duplicateKey(db) {
				continue
			}
			ratio := similarityRatio(da.Description, db.Description)
			if ratio > c.opts.NearDuplicateThreshold {
				pairs = append(pairs, simPair{
					FirstNumber:  da.DocumentNumber,
					SecondNumber: db.DocumentNumber,
					Similarity:   ratio,
					Description:  da.Description,
				})
				consumed[a], consumed[b] = true, true
				break
			}
		}
	}

	evidence := Evidence{
		"similar_pair_count": len(pairs),
		"threshold":          c.opts.NearDuplicateThreshold,
	}
	if len(pairs) > 0 {
		evidence["similar_pairs"] = pairs
		return NewFinding(CategoryFraud, "description_similarity", StatusWarning, SeverityMedium,
			fmt.Sprintf("%d pair(s) of documents carry near-identical descriptions", len(pairs)), evidence)
	}
	return passFinding(CategoryFraud, "description_similarity",
		"No near-duplicate document descriptions", evidence)
}

// checkThresholdHits reports line items whose amount reaches the configured
// large-transaction limit. The limit itself counts as a hit.
func (c *FraudChecker) checkThresholdHits(ctx context.Context, snap *ledger.Snapshot) Finding {
	type largeItem struct {
		DocumentNumber int64           `json:"document_number"`
		RowNumber      int             `json:"row_number"`
		AccountCode    string          `json:"account_code"`
		Amount         decimal.Decimal `json:"amount"`
	}

	docNumbers := documentNumberIndex(snap)

	var hits []largeItem
	for i := range snap.Items {
		if ctx.Err() != nil {
			break
		}
		it := &snap.Items[i]
		amount := it.Debit
		if it.Credit.GreaterThan(amount) {
			amount = it.Credit
		}
		if amount.GreaterThanOrEqual(c.opts.LargeTransactionLimit) {
			hits = append(hits, largeItem{
				DocumentNumber: docNumbers[it.DocumentID.String()],
				RowNumber:      it.RowNumber,
				AccountCode:    it.AccountCode,
				Amount:         amount,
			})
		}
	}

	evidence := Evidence{
		"large_transaction_count": len(hits),
		"limit":                   c.opts.LargeTransactionLimit,
	}
	if len(hits) > 0 {
		evidence["large_transactions"] = hits
		return NewFinding(CategoryFraud, "threshold_hits", StatusFail, SeverityHigh,
			fmt.Sprintf("%d line item(s) at or above the large-transaction limit", len(hits)), evidence)
	}
	return passFinding(CategoryFraud, "threshold_hits",
		"No line items at or above the large-transaction limit", evidence)
}

// checkRoundNumbers measures the share of non-zero amounts that are exact
// multiples of the configured granularity. Real transaction populations carry
// odd tails; fabricated ones cluster on round values.
func (c *FraudChecker) checkRoundNumbers(ctx context.Context, snap *ledger.Snapshot) Finding {
	granularity := decimal.NewFromInt(c.opts.RoundNumberGranularity)

	var roundCount, nonZeroCount int
	for i := range snap.Items {
		if ctx.Err() != nil {
			break
		}
		for _, amount := range []decimal.Decimal{snap.Items[i].Debit, snap.Items[i].Credit} {
			if amount.IsZero() {
				continue
			}
			nonZeroCount++
			if amount.Mod(granularity).IsZero() {
				roundCount++
			}
		}
	}

	var share float64
	if nonZeroCount > 0 {
		share = float64(roundCount) / float64(nonZeroCount)
	}

	evidence := Evidence{
		"round_amount_count": roundCount,
		"non_zero_amounts":   nonZeroCount,
		"round_share":        share,
		"granularity":        c.opts.RoundNumberGranularity,
	}
	if roundCount > c.opts.RoundNumberWarnCount {
		return NewFinding(CategoryFraud, "round_number_bias", StatusWarning, SeverityMedium,
			fmt.Sprintf("%d amount(s) are exact multiples of %d", roundCount, c.opts.RoundNumberGranularity), evidence)
	}
	return passFinding(CategoryFraud, "round_number_bias",
		"Round-amount frequency within expected bounds", evidence)
}

// checkEndOfPeriodRush measures the share of total document value booked in
// the final days of the period. Concentration there is the classic signature
// of result-steering entries.
func (c *FraudChecker) checkEndOfPeriodRush(ctx context.Context, snap *ledger.Snapshot) Finding {
	if len(snap.Documents) == 0 {
		return NewFinding(CategoryFraud, "end_of_period_rush", StatusUnavailable, SeverityLow,
			"No documents in the period; timing not analyzed", Evidence{"total_documents": 0})
	}

	windowStart := snap.Period.LastDays(c.opts.EndOfPeriodWindowDays)

	totalValue := decimal.Zero
	windowValue := decimal.Zero
	windowDocs := 0
	for i := range snap.Documents {
		if ctx.Err() != nil {
			break
		}
		doc := &snap.Documents[i]
		v := doc.TotalValue()
		totalValue = totalValue.Add(v)
		if !doc.DocumentDate.Before(windowStart) {
			windowValue = windowValue.Add(v)
			windowDocs++
		}
	}

	if totalValue.IsZero() {
		return NewFinding(CategoryFraud, "end_of_period_rush", StatusUnavailable, SeverityLow,
			"Period carries no document value; timing not analyzed",
			Evidence{"total_documents": len(snap.Documents)})
	}

	share, _ := windowValue.Div(totalValue).Float64()
	evidence := Evidence{
		"window_days":      c.opts.EndOfPeriodWindowDays,
		"window_documents": windowDocs,
		"window_value":     windowValue,
		"total_value":      totalValue,
		"window_share":     share,
	}

	switch {
	case share > 0.5:
		return NewFinding(CategoryFraud, "end_of_period_rush", StatusWarning, SeverityHigh,
			fmt.Sprintf("%.0f%% of document value booked in the final %d days", share*100, c.opts.EndOfPeriodWindowDays), evidence)
	case share > 0.3:
		return NewFinding(CategoryFraud, "end_of_period_rush", StatusWarning, SeverityMedium,
			fmt.Sprintf("%.0f%% of document value booked in the final %d days", share*100, c.opts.EndOfPeriodWindowDays), evidence)
	default:
		return passFinding(CategoryFraud, "end_of_period_rush",
			"Document value is not concentrated at period end", evidence)
	}
}

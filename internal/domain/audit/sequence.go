package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/fintegrity/backend/internal/domain/ledger"
)

// maxListedGaps caps how many individual numbers the gap evidence enumerates.
// The full count is always reported; the list is a sample for large ranges.
const maxListedGaps = 100

// SequenceChecker analyzes document-number continuity within a period
type SequenceChecker struct {
	opts Options
}

// NewSequenceChecker creates a new SequenceChecker
func NewSequenceChecker(opts Options) *SequenceChecker {
	return &SequenceChecker{opts: opts}
}

// Check runs the gap and duplicate-number tests
func (c *SequenceChecker) Check(ctx context.Context, snap *ledger.Snapshot) []Finding {
	findings := make([]Finding, 0, 2)
	findings = append(findings, c.checkGaps(ctx, snap))
	findings = append(findings, c.checkDuplicateNumbers(ctx, snap))
	return findings
}

// checkGaps reports document numbers missing from the inclusive range between
// the smallest and largest number observed in the period. The expected range
// is derived from the data itself; nothing is assumed about its start.
func (c *SequenceChecker) checkGaps(ctx context.Context, snap *ledger.Snapshot) Finding {
	if len(snap.Documents) == 0 {
		return NewFinding(CategoryIntegrity, "sequence_gap", StatusUnavailable, SeverityLow,
			"No documents in the period; sequence not analyzed",
			Evidence{"total_documents": 0, "sequence_status": "no documents"})
	}

	numbers := make([]int64, 0, len(snap.Documents))
	seen := make(map[int64]struct{}, len(snap.Documents))
	for i := range snap.Documents {
		n := snap.Documents[i].DocumentNumber
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	var gapCount int64
	var listed []int64
	for i := 1; i < len(numbers); i++ {
		if ctx.Err() != nil {
			break
		}
		for n := numbers[i-1] + 1; n < numbers[i]; n++ {
			gapCount++
			if len(listed) < maxListedGaps {
				listed = append(listed, n)
			}
		}
	}

	evidence := Evidence{
		"min_number":      numbers[0],
		"max_number":      numbers[len(numbers)-1],
		"total_documents": len(snap.Documents),
		"missing_count":   gapCount,
	}
	if gapCount > 0 {
		evidence["missing_sequences"] = listed
		return NewFinding(CategoryIntegrity, "sequence_gap", StatusWarning, SeverityMedium,
			fmt.Sprintf("%d document number(s) missing from the sequence", gapCount), evidence)
	}
	return passFinding(CategoryIntegrity, "sequence_gap",
		"Document numbering is continuous", evidence)
}

// checkDuplicateNumbers reports document numbers assigned to more than one
// document. A reused number breaks the uniqueness the gap analysis assumes
// and usually indicates manual renumbering.
func (c *SequenceChecker) checkDuplicateNumbers(ctx context.Context, snap *ledger.Snapshot) Finding {
	if len(snap.Documents) == 0 {
		return NewFinding(CategoryIntegrity, "duplicate_document_numbers", StatusUnavailable, SeverityLow,
			"No documents in the period; numbering not analyzed", Evidence{"total_documents": 0})
	}

	type dupGroup struct {
		DocumentNumber int64    `json:"document_number"`
		Count          int      `json:"count"`
		DocumentIDs    []string `json:"document_ids"`
	}

	byNumber := make(map[int64][]string, len(snap.Documents))
	for i := range snap.Documents {
		if ctx.Err() != nil {
			break
		}
		doc := &snap.Documents[i]
		byNumber[doc.DocumentNumber] = append(byNumber[doc.DocumentNumber], doc.ID.String())
	}

	var dupNumbers []int64
	for n, ids := range byNumber {
		if len(ids) > 1 {
			dupNumbers = append(dupNumbers, n)
		}
	}
	sort.Slice(dupNumbers, func(i, j int) bool { return dupNumbers[i] < dupNumbers[j] })

	groups := make([]dupGroup, 0, len(dupNumbers))
	for _, n := range dupNumbers {
		ids := byNumber[n]
		sort.Strings(ids)
		groups = append(groups, dupGroup{DocumentNumber: n, Count: len(ids), DocumentIDs: ids})
	}

	evidence := Evidence{
		"duplicate_number_count": len(groups),
		"total_documents":        len(snap.Documents),
	}
	if len(groups) > 0 {
		evidence["duplicate_groups"] = groups
		return NewFinding(CategoryIntegrity, "duplicate_document_numbers", StatusFail, SeverityHigh,
			fmt.Sprintf("%d document number(s) are assigned more than once", len(groups)), evidence)
	}
	return passFinding(CategoryIntegrity, "duplicate_document_numbers",
		"Every document number is unique within the period", evidence)
}

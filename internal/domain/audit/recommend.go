package audit

// recommendationText maps each test to the follow-up an auditor should take
// when it does not pass. Tests without an entry get the generic fallback.
var recommendationText = map[string]struct {
	Recommendation string
	Action         string
}{
	"balance_check": {
		Recommendation: "Correct the unbalanced documents before closing the period",
		Action:         "Re-post each listed document so item debits equal item credits",
	},
	"orphan_headers": {
		Recommendation: "Investigate document headers that carry no line items",
		Action:         "Complete or void the listed documents",
	},
	"empty_description": {
		Recommendation: "Require a narrative on every journal line",
		Action:         "Backfill descriptions for the listed items and enforce entry validation",
	},
	"negative_amounts": {
		Recommendation: "Remove negative amounts from journal lines",
		Action:         "Re-post the listed items with the amount on the correct side",
	},
	"missing_account": {
		Recommendation: "Resolve line items that reference no chart-of-accounts entry",
		Action:         "Create the missing accounts or correct the listed codes",
	},
	"out_of_period_date": {
		Recommendation: "Review documents dated outside the accounting period",
		Action:         "Move the listed documents to the correct period or fix their dates",
	},
	"period_balance_sum": {
		Recommendation: "Reconcile the period-level debit and credit totals",
		Action:         "Locate the one-sided postings driving the period difference",
	},
	"sequence_gap": {
		Recommendation: "Account for the missing document numbers",
		Action:         "Confirm each listed number maps to a voided or archived document",
	},
	"duplicate_document_numbers": {
		Recommendation: "Eliminate reused document numbers",
		Action:         "Renumber the listed documents and lock numbering to the sequence generator",
	},
	"exact_duplicate": {
		Recommendation: "Verify documents with identical header fields are not double postings",
		Action:         "Compare the listed groups line by line and reverse confirmed duplicates",
	},
	"description_similarity": {
		Recommendation: "Review document pairs with near-identical descriptions",
		Action:         "Confirm each listed pair reflects two distinct business events",
	},
	"threshold_hits": {
		Recommendation: "Substantiate transactions above the large-amount limit",
		Action:         "Collect supporting documents and approvals for the listed items",
	},
	"round_number_bias": {
		Recommendation: "Examine the concentration of round amounts",
		Action:         "Sample the round-amount postings and verify them against source documents",
	},
	"end_of_period_rush": {
		Recommendation: "Scrutinize the value booked in the final days of the period",
		Action:         "Test the end-of-period entries for cutoff manipulation",
	},
	"current_ratio": {
		Recommendation: "Strengthen short-term liquidity",
		Action:         "Review payment terms and the maturity profile of current liabilities",
	},
	"quick_ratio": {
		Recommendation: "Reduce reliance on inventory for short-term coverage",
		Action:         "Assess inventory liquidity and near-term cash sources",
	},
	"debt_to_equity": {
		Recommendation: "Review the leverage position",
		Action:         "Evaluate refinancing or capital injection against the debt load",
	},
	"debt_to_assets": {
		Recommendation: "Review debt financing of the asset base",
		Action:         "Check covenant headroom and the cost of the outstanding debt",
	},
	"return_on_assets": {
		Recommendation: "Investigate weak asset productivity",
		Action:         "Identify underperforming asset classes and idle capacity",
	},
	"return_on_equity": {
		Recommendation: "Investigate weak returns on owners' capital",
		Action:         "Decompose the return into margin, turnover and leverage drivers",
	},
	"inventory_turnover": {
		Recommendation: "Investigate slow-moving inventory",
		Action:         "Age the inventory and test it for obsolescence write-downs",
	},
	"asset_turnover": {
		Recommendation: "Investigate low revenue generation from the asset base",
		Action:         "Review utilization of the major asset classes",
	},
	"operating_cash_flow": {
		Recommendation: "Reconcile reported results with operating cash",
		Action:         "Trace the working-capital movements absorbing the period's cash",
	},
}

// BuildRecommendations derives follow-up actions from the non-passing
// findings, in finding order. Unavailable tests produce nothing; there is no
// action to take on a test that never ran.
func BuildRecommendations(findings []Finding) []Recommendation {
	var recs []Recommendation
	for _, f := range findings {
		if f.Status == StatusPass || !f.Status.Executed() {
			continue
		}
		text, ok := recommendationText[f.TestName]
		if !ok {
			text.Recommendation = "Review the finding with the engagement team"
			text.Action = "Assess the evidence and decide on corrective posting"
		}
		recs = append(recs, Recommendation{
			Category:       f.Category,
			Priority:       f.Severity,
			Recommendation: text.Recommendation,
			Action:         text.Action,
		})
	}
	return recs
}

package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Period identifies a company's accounting period with inclusive date bounds.
// A period is immutable once audited.
type Period struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Contains reports whether the given date falls within [StartDate, EndDate].
func (p Period) Contains(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// LastDays returns the start of the window covering the final n days of the
// period. The window is inclusive of EndDate.
func (p Period) LastDays(n int) time.Time {
	return p.EndDate.AddDate(0, 0, -n)
}

// String returns a human-readable period label
func (p Period) String() string {
	if p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf("%s..%s", p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
}

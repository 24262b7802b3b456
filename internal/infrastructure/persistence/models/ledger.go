package models

import (
	"time"

	"github.com/fintegrity/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for an audited company.
type CompanyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// PeriodModel is the persistence model for an accounting period.
type PeriodModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(100);not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PeriodModel) TableName() string {
	return "accounting_periods"
}

// ToDomain converts the persistence model to a domain Period.
func (m *PeriodModel) ToDomain() ledger.Period {
	return ledger.Period{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Title:     m.Title,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
	}
}

// DocumentModel is the persistence model for a journal entry header.
type DocumentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	PeriodID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentNumber int64           `gorm:"not null;index:idx_documents_period_number"`
	DocumentDate   time.Time       `gorm:"not null;index"`
	Description    string          `gorm:"type:text"`
	TotalDebit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCredit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document.
func (m *DocumentModel) ToDomain() ledger.Document {
	return ledger.Document{
		ID:             m.ID,
		PeriodID:       m.PeriodID,
		DocumentNumber: m.DocumentNumber,
		DocumentDate:   m.DocumentDate,
		Description:    m.Description,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
	}
}

// LineItemModel is the persistence model for a journal entry line.
type LineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	RowNumber   int             `gorm:"not null"`
	AccountCode string          `gorm:"type:varchar(20);not null;index"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() ledger.LineItem {
	return ledger.LineItem{
		ID:          m.ID,
		DocumentID:  m.DocumentID,
		RowNumber:   m.RowNumber,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
	}
}

// AccountModel is the persistence model for a chart-of-accounts entry.
type AccountModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_company_code,priority:1"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_accounts_company_code,priority:2"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Group     string    `gorm:"type:varchar(20);not null"`
	Level     int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account. Unknown group
// strings degrade to GroupUnknown rather than failing the load.
func (m *AccountModel) ToDomain() ledger.Account {
	group := ledger.AccountGroup(m.Group)
	if !group.IsValid() {
		group = ledger.GroupUnknown
	}
	return ledger.Account{
		ID:    m.ID,
		Code:  m.Code,
		Name:  m.Name,
		Group: group,
		Level: m.Level,
	}
}

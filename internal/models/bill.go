package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bill represents one billing transaction for a patient.
// CreatedAt is set once at creation time and never updated; totals are
// always recomputed from the current items, never stored on the bill.
type Bill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PatientID uint      `gorm:"not null;index" json:"patient_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relationships
	Patient Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Items   []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem represents one medicine line on a bill.
// PricePerUnit keeps the stored DECIMAL(6,2) column in its textual form so
// that corrupt stored values survive the scan and are detected when the line
// total is computed, instead of failing the whole row read.
type BillItem struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BillID       uint   `gorm:"not null;index" json:"bill_id"`
	MedicineName string `gorm:"size:100;not null" json:"medicine_name"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	PricePerUnit string `gorm:"type:decimal(6,2);not null" json:"price_per_unit"`
}

// TableName specifies the table name for BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// LineTotal computes quantity x unit price with exact decimal arithmetic.
// An unparseable stored price is reported as an error, never as a partial
// or float-rounded amount.
func (i BillItem) LineTotal() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(i.PricePerUnit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q for item %d: %w", i.PricePerUnit, i.ID, err)
	}
	return price.Mul(decimal.NewFromInt(int64(i.Quantity))), nil
}

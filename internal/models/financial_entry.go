package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type FinancialEntry struct {
	Base

	Date          time.Time       `gorm:"index;not null" json:"date"`
	Kind          string          `gorm:"size:10;index;not null" json:"kind"`
	Description   string          `gorm:"size:255" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	Platform      string          `gorm:"size:50" json:"platform"`

	// Set only on entries generated from a completed appointment.
	AppointmentID *string `gorm:"size:36;uniqueIndex" json:"appointment_id"`
}

func (FinancialEntry) TableName() string { return "registros_financeiros" }

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Appointment struct {
	Base

	ClientID   string `gorm:"size:36;index;not null" json:"client_id"`
	ClientName string `gorm:"size:100" json:"client_name"`

	// Service snapshot taken at booking time. Later edits of the service
	// never change what a booked appointment consumes or charges.
	ServiceID          string                            `gorm:"size:36;index;not null" json:"service_id"`
	ServiceName        string                            `gorm:"size:100" json:"service_name"`
	ServicePrice       decimal.Decimal                   `gorm:"type:decimal(10,2)" json:"service_price"`
	ServiceDurationMin int                               `json:"service_duration_min"`
	ProductUsages      datatypes.JSONSlice[ProductUsage] `json:"product_usages"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	ActualStart *time.Time `json:"actual_start"`
	ActualEnd   *time.Time `json:"actual_end"`

	CompletedAt      *time.Time `json:"completed_at"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	FinancialEntryID string     `gorm:"size:36" json:"financial_entry_id"`
}

func (Appointment) TableName() string { return "agendamentos" }

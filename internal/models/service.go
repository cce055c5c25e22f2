package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductUsage is one consumption line of a service: how many units of a
// product a single session uses.
type ProductUsage struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Service struct {
	Base

	Name        string          `gorm:"size:100;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMin int             `gorm:"not null" json:"duration_min"`
	Description string          `gorm:"size:255" json:"description"`

	ProductUsages datatypes.JSONSlice[ProductUsage] `json:"product_usages"`
}

func (Service) TableName() string { return "servicos" }

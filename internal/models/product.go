package models

import "github.com/shopspring/decimal"

type Product struct {
	Base

	Name        string          `gorm:"size:100;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Description string          `gorm:"size:255" json:"description"`
}

func (Product) TableName() string { return "produtos" }

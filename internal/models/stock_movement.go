package models

// StockMovement records each stock change of a product.
// Delta is negative for consumption and positive for restock.
type StockMovement struct {
	Base

	ProductID   string `gorm:"size:36;index;not null" json:"product_id"`
	Delta       int    `gorm:"not null" json:"delta"`
	StockBefore int    `gorm:"not null" json:"stock_before"`
	StockAfter  int    `gorm:"not null" json:"stock_after"`
	Reason      string `gorm:"size:50" json:"reason"`
	Reference   string `gorm:"size:36;index" json:"reference"`
}

func (StockMovement) TableName() string { return "movimentos_estoque" }

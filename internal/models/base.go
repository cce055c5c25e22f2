package models

import "time"

// Base carries the bookkeeping every stored record shares.
// Seq keeps insertion order; Version is the optimistic-concurrency stamp.
type Base struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	Seq     int64  `gorm:"index;not null" json:"seq"`
	Version int    `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) RecordBase() *Base { return b }

// Record is implemented by every model embedding Base.
type Record interface {
	RecordBase() *Base
}

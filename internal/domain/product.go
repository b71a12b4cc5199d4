package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint64              `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string              `json:"name" gorm:"size:255;not null"`
	Category     string              `json:"category" gorm:"size:100;index"`
	Price        decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	OldPrice     decimal.NullDecimal `json:"oldPrice" gorm:"type:decimal(12,2)"`
	DealID       *uint64             `json:"dealId,omitempty" gorm:"index"`
	DealDiscount *int                `json:"dealDiscount,omitempty"`
	DealTitle    *string             `json:"dealTitle,omitempty" gorm:"size:255"`
	CreatedAt    time.Time           `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time           `json:"updatedAt" gorm:"autoUpdateTime"`
}

// DealStamp is what a product records about the deal discounting it.
type DealStamp struct {
	ID       uint64
	Discount int
	Title    string
}

// PriceUpdate is one row of a batched price write. OldPrice is written only
// when Valid; a nil Deal clears the product's deal stamp.
type PriceUpdate struct {
	ProductID uint64
	Price     decimal.Decimal
	OldPrice  decimal.NullDecimal
	Deal      *DealStamp
}

// BasePrice is the snapshot taken before any discount, if one is recorded.
func (p *Product) BasePrice() (decimal.Decimal, bool) {
	if p.OldPrice.Valid && !p.OldPrice.Decimal.IsZero() {
		return p.OldPrice.Decimal, true
	}
	return decimal.Zero, false
}

package domain

import "time"

// Deal is a time-bounded percentage discount over a set of product
// categories. At most one deal row is treated as current.
type Deal struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Discount    int       `json:"discount" gorm:"not null"`
	ImageURL    string    `json:"imageUrl,omitempty" gorm:"size:1024"`
	EndDate     time.Time `json:"endDate" gorm:"not null;index"`
	Categories  []string  `json:"categories" gorm:"serializer:json;type:json"`
	IsActive    bool      `json:"isActive" gorm:"default:true;index"`

	ApplicableProducts int64 `json:"applicableProducts" gorm:"-"`
}

func (d *Deal) Expired(now time.Time) bool {
	return now.After(d.EndDate)
}

// Applies reports whether the deal should currently discount products.
func (d *Deal) Applies() bool {
	return d.IsActive && len(d.Categories) > 0
}

func (d *Deal) Stamp() *DealStamp {
	return &DealStamp{ID: d.ID, Discount: d.Discount, Title: d.Title}
}

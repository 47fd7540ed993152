package models

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID  string              `gorm:"size:36;not null;index" json:"category_id,omitempty"`
	Category    *Category           `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	BrandID     string              `gorm:"size:36;not null;index" json:"brand_id,omitempty"`
	Brand       *Brand              `gorm:"constraint:OnDelete:CASCADE" json:"brand,omitempty"`
	Name        string              `gorm:"size:180;not null" json:"name"`
	IsAvailable bool                `gorm:"not null;default:false" json:"is_available"`
	Price       decimal.Decimal     `gorm:"type:decimal(8,2);not null" json:"price"`
	Amount      int                 `gorm:"not null;default:0" json:"amount"`
	Discount    decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"discount"`
	Image       string              `gorm:"type:text" json:"image"`
}

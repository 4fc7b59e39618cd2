package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a purchasable item that belongs to exactly one category.
// Names are unique per category; timestamps are stamped by the caller.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	CategoryID  uint            `gorm:"not null;uniqueIndex:idx_products_category_name"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Name        string          `gorm:"size:250;not null;uniqueIndex:idx_products_category_name"`
	Slug        string          `gorm:"size:250;not null"`
	Description string          `gorm:"size:500;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false;not null"`
	ModifiedAt  time.Time       `gorm:"autoUpdateTime:false;not null"`
}

func (p *Product) TableName() string {
	return "products"
}

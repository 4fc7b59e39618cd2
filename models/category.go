package models

// Category represents a named grouping of products.
// Slug is the URL-facing identifier; neither name nor slug is unique.
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:250;not null"`
	Slug        string    `gorm:"size:250;not null;index"`
	Description string    `gorm:"size:500;not null"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (c *Category) TableName() string {
	return "categories"
}

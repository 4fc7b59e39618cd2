package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) GetByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateInCategory inserts product under the given category unless the
// category already holds a product with exactly the same name.
//
// The category row stays locked for the duration of the check and the
// insert, so concurrent creations in one category are serialised. The
// (category_id, name) unique index backs this up for writers that bypass
// the lock.
func (r *ProductsRepository) CreateInCategory(ctx context.Context, categoryID uint, product *Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		var names []string
		if err := tx.Model(&Product{}).
			Where("category_id = ?", categoryID).
			Pluck("name", &names).Error; err != nil {
			return err
		}
		for _, name := range names {
			if name == product.Name {
				return ErrDuplicateProduct
			}
		}

		product.CategoryID = categoryID
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateProduct
			}
			return err
		}
		product.Category = category
		return nil
	})
}

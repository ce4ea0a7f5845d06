package service

import (
	"github.com/hugshop/internal/db"
	"gorm.io/gorm"
)

// ProductService provides the catalog reads the storefront needs.
type ProductService struct {
	db *gorm.DB
}

// NewProductService returns a new ProductService instance.
func NewProductService(gdb *gorm.DB) *ProductService {
	return &ProductService{db: gdb}
}

// List returns products ordered by title. A positive limit caps the result;
// featuredOnly restricts it to flagged products.
func (s *ProductService) List(limit int, featuredOnly bool) ([]db.Product, error) {
	query := s.db.Order("title ASC")
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var products []db.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

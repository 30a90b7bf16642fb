package repository

import (
	"villfresh_store/internal/domain/product/model"

	"gorm.io/gorm"
)

// ListFilter mirrors the catalog query parameters.
type ListFilter struct {
	Search     string // matches name or description, case-insensitive
	Category   string // rice|nuts|seeds, "all"/"" = no filter
	PriceRange string // under-200|200-400|over-400, "all"/"" = no filter
	SortBy     string // price-low|price-high|name
}

// IsEmpty reports whether the filter selects the whole catalog; only
// such listings are cached.
func (f ListFilter) IsEmpty() bool {
	return f.Search == "" &&
		(f.Category == "" || f.Category == "all") &&
		(f.PriceRange == "" || f.PriceRange == "all") &&
		f.SortBy == ""
}

type ProductRepository interface {
	Create(product *model.Product) error
	GetByID(id string) (*model.Product, error)
	GetList(filter ListFilter) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetList(filter ListFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}

	switch filter.PriceRange {
	case "under-200":
		query = query.Where("price < ?", 200)
	case "200-400":
		query = query.Where("price >= ? AND price <= ?", 200, 400)
	case "over-400":
		query = query.Where("price > ?", 400)
	}

	switch filter.SortBy {
	case "price-low":
		query = query.Order("price ASC")
	case "price-high":
		query = query.Order("price DESC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var products []model.Product
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepository) Update(product *model.Product) error {
	result := r.db.Save(product)
	return result.Error
}

func (r *productRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

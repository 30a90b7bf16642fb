package repository

import (
	"errors"

	"villfresh_store/internal/domain/cart/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	GetByUser(userID string) (*model.Cart, error)
	Save(cart *model.Cart) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetByUser returns the user's cart, creating an empty one on first access.
func (r *cartRepository) GetByUser(userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = model.Cart{UserID: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(cart *model.Cart) error {
	return r.db.Save(cart).Error
}

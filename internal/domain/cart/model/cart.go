package model

import (
	"villfresh_store/pkg/model"

	"gorm.io/datatypes"
)

// CartItem is a denormalized snapshot of a product at add time.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Weight    string  `json:"weight"`
	Quantity  int     `json:"quantity"`
}

// Cart holds one row per user; items live in a jsonb column.
type Cart struct {
	model.BaseModel
	UserID string                         `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Items  datatypes.JSONType[[]CartItem] `gorm:"type:jsonb" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// Total sums price*quantity over all items.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.Items.Data() {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

package model

import (
	baseModel "villfresh_store/pkg/model"

	"gorm.io/datatypes"
)

// Product is a catalog entry.
type Product struct {
	baseModel.BaseModel
	Name        string                      `gorm:"not null" json:"name"`
	Description string                      `gorm:"not null" json:"description"`
	Price       float64                     `gorm:"not null;check:price >= 0" json:"price"`
	Image       string                      `gorm:"not null" json:"image"`
	Category    string                      `gorm:"not null" json:"category"` // rice, nuts, seeds
	Weight      string                      `gorm:"not null" json:"weight"`
	Benefits    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"benefits"`
	InStock     bool                        `gorm:"default:true" json:"inStock"`
}

const (
	CategoryRice  = "rice"
	CategoryNuts  = "nuts"
	CategorySeeds = "seeds"
)

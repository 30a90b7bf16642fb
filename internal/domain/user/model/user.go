package model

import (
	"villfresh_store/pkg/model"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	model.BaseModel
	Name           string `json:"name"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	Phone          string `json:"phone"`
	Password       string `json:"-"` // bcrypt hash, never serialized
	ProfilePicture string `json:"profilePicture,omitempty"`
	Role           string `gorm:"default:'user'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold in the marketplace.
const (
	RoleWholesaler = "wholesaler"
	RoleRetailer   = "retailer"
	RoleConsumer   = "consumer"
)

// User represents an account in the marketplace.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Role       string `json:"role" validate:"required,oneof=wholesaler retailer consumer"`
	Address    string `json:"address,omitempty" validate:"omitempty,max=500"`
	Password string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

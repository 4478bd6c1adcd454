package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog entry offered by a seller. Stock is only ever
// mutated through the catalog CRUD and the checkout inventory debit; it must
// never go negative.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	CategoryID  string          `json:"category_id" gorm:"index;type:varchar(36)"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	SellerID    string          `json:"seller_id" gorm:"index;type:varchar(36)"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Rating      decimal.Decimal `json:"rating" gorm:"type:numeric(3,1);default:0"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Category groups products for catalog filtering.
type Category struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name string `json:"name" validate:"required,min=2,max=100"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

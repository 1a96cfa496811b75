package models

import "time"

// Category groups shop products.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" form:"name" validate:"required,max=120"`
	Slug        string    `db:"slug" json:"slug" form:"slug" validate:"omitempty,max=140"`
	Description string    `db:"description" json:"description" form:"description"`
	SortOrder   int       `db:"sort_order" json:"sortOrder" form:"sortOrder"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Product is a shop item.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	CategoryID  *int64    `db:"category_id" json:"categoryId,omitempty" form:"categoryId"`
	Name        string    `db:"name" json:"name" form:"name" validate:"required,max=200"`
	Description string    `db:"description" json:"description" form:"description"`
	Price       float64   `db:"price" json:"price" form:"price" validate:"gte=0"`
	ImageURL    string    `db:"image_url" json:"imageUrl,omitempty" form:"imageUrl"`
	BuyURL      string    `db:"buy_url" json:"buyUrl,omitempty" form:"buyUrl" validate:"omitempty,url"`
	InStock     bool      `db:"in_stock" json:"inStock" form:"inStock"`
	Featured    bool      `db:"featured" json:"featured" form:"featured"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

package models

import "github.com/google/uuid"

// Product statuses.
const (
	ProductDraft     = "draft"
	ProductPublished = "published"
)

type Product struct {
	BaseModel
	ShopID       uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_products_shop_slug" json:"shop_id"`
	CategoryID   *uuid.UUID     `gorm:"type:uuid" json:"category_id"`
	Category     *Category      `json:"category,omitempty"`
	Slug         string         `gorm:"uniqueIndex:idx_products_shop_slug" json:"slug"`
	NameLo       string         `json:"name_lo"`
	NameEn       string         `json:"name_en"`
	DescLo       string         `json:"desc_lo"`
	DescEn       string         `json:"desc_en"`
	Price        float64        `json:"price"`
	Status       string         `json:"status"`
	CoverImageID *uuid.UUID     `gorm:"type:uuid" json:"cover_image_id"`
	Images       []ProductImage `json:"images,omitempty"`
	OptionGroups []OptionGroup  `json:"option_groups,omitempty"`
}

// ProductImage is an object-storage key plus a per-product sort order.
type ProductImage struct {
	BaseModel
	ShopID     uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	StorageKey string    `json:"storage_key"`
	SortOrder  int       `json:"sort_order"`
}

// OptionGroup is a product-level variant selector (size, color, ...).
type OptionGroup struct {
	BaseModel
	ShopID     uuid.UUID     `gorm:"type:uuid;index" json:"shop_id"`
	ProductID  uuid.UUID     `gorm:"type:uuid;index" json:"product_id"`
	NameLo     string        `json:"name_lo"`
	NameEn     string        `json:"name_en"`
	IsRequired bool          `json:"is_required"`
	SortOrder  int           `json:"sort_order"`
	Values     []OptionValue `gorm:"foreignKey:GroupID" json:"values,omitempty"`
}

type OptionValue struct {
	BaseModel
	ShopID    uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;index" json:"group_id"`
	ValueLo   string    `json:"value_lo"`
	ValueEn   string    `json:"value_en"`
	SortOrder int       `json:"sort_order"`
}

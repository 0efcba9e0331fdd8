package models

import "github.com/google/uuid"

// Category is a bilingual product grouping owned by a shop. Deleting a
// category nulls the category_id on its products, it never deletes them.
type Category struct {
	BaseModel
	ShopID    uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	NameLo    string    `json:"name_lo"`
	NameEn    string    `json:"name_en"`
	SortOrder int       `json:"sort_order"`
}

package models

import "github.com/google/uuid"

// WaNumber is a WhatsApp-capable phone number a shop receives orders on.
// At most one number per shop carries is_default; is_active gates whether
// customers see it on the storefront.
type WaNumber struct {
	BaseModel
	ShopID    uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	Label     string    `json:"label"`
	PhoneE164 string    `json:"phone_e164"`
	IsDefault bool      `json:"is_default"`
	IsActive  bool      `json:"is_active"`
}

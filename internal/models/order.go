package models

import "github.com/google/uuid"

// Order statuses. Done and canceled are terminal.
const (
	OrderNew       = "new"
	OrderContacted = "contacted"
	OrderDone      = "done"
	OrderCanceled  = "canceled"
)

// Order is an immutable customer submission. The rendered WhatsApp message
// is snapshotted at creation so later template edits do not rewrite history.
type Order struct {
	BaseModel
	ShopID          uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product         *Product  `json:"product,omitempty"`
	WaNumberID      uuid.UUID `gorm:"type:uuid" json:"wa_number_id"`
	WaNumber        *WaNumber `json:"wa_number,omitempty"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	Qty             int       `json:"qty"`
	Note            string    `json:"note"`
	SelectedOptions string    `json:"selected_options"`
	WaMessage       string    `json:"wa_message"`
	Status          string    `json:"status"`
}

// IsTerminalStatus reports whether an order status admits no further
// transitions through the normal admin flow.
func IsTerminalStatus(status string) bool {
	return status == OrderDone || status == OrderCanceled
}

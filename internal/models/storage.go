package models

// StoredObject backs the upload proxy. Keys embed the owning shop id
// (uploads/<shop_id>/...) which handlers verify before reads and writes.
type StoredObject struct {
	BaseModel
	ObjectKey   string `gorm:"uniqueIndex" json:"object_key"`
	ContentType string `json:"content_type"`
	Data        []byte `gorm:"type:bytea" json:"-"`
}

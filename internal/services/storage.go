package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/washop/internal/models"
)

// ErrObjectNotFound is returned when no object exists under a key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore persists raw uploaded bytes under tenant-prefixed keys.
// Handlers validate the key's shop segment before calling either method.
type ObjectStore interface {
	Put(key, contentType string, data []byte) error
	Get(key string) (*models.StoredObject, error)
}

// DBObjectStore keeps objects in the stored_objects table. A bucket-backed
// implementation can replace it without touching handlers.
type DBObjectStore struct {
	db *gorm.DB
}

// NewDBObjectStore constructs a DBObjectStore.
func NewDBObjectStore(db *gorm.DB) *DBObjectStore {
	return &DBObjectStore{db: db}
}

// Put writes or overwrites the object under key.
func (s *DBObjectStore) Put(key, contentType string, data []byte) error {
	obj := models.StoredObject{
		ObjectKey:   key,
		ContentType: contentType,
		Data:        data,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "object_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
	}).Create(&obj).Error
}

// Get loads the object stored under key.
func (s *DBObjectStore) Get(key string) (*models.StoredObject, error) {
	var obj models.StoredObject
	if err := s.db.First(&obj, "object_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &obj, nil
}

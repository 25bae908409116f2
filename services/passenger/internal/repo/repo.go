package repo

import (
	"sync"

	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
)

// Store owns the passenger collection. Writes are serialized by the mutex
// so the cabin-sharing check and the write it guards are one atomic step.
type Store struct {
	DB *gorm.DB

	mu sync.Mutex
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Passenger{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

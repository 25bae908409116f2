package repo

import (
	"sync"

	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/services/auth/internal/models"
)

// Store owns the user and refresh-session collections. The mutex serializes
// the writes whose correctness depends on what the writer just read: the
// empty-store admin check on registration and refresh rotation. sqlite's
// transaction isolation alone is too coarse to rely on for those.
type Store struct {
	DB *gorm.DB

	mu sync.Mutex
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.User{}, &models.RefreshSession{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/services/auth/internal/models"
)

// CreateUser inserts the user, assigning the admin role iff the store is
// empty at that moment. Returns apperr.ErrUsernameTaken on duplicates.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			return apperr.ErrUsernameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			u.Role = models.RoleAdmin
		} else {
			u.Role = models.RoleUser
		}
		u.IsActive = true

		return tx.Create(u).Error
	})
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateEmail is the only profile mutation. Username, role and id are
// immutable after creation; the service layer rejects patches naming them.
func (s *Store) UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		user.Email = email
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

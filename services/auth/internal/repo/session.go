package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/services/auth/internal/models"
)

func (s *Store) SaveSession(ctx context.Context, sess *models.RefreshSession) error {
	return s.DB.WithContext(ctx).Create(sess).Error
}

func sessionValid(tx *gorm.DB, jti string) (bool, error) {
	var sess models.RefreshSession
	if err := tx.Where("jti = ?", jti).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if sess.Revoked || sess.ExpiresAt < time.Now().Unix() {
		return false, nil
	}
	return true, nil
}

func (s *Store) SessionValid(ctx context.Context, jti string) (bool, error) {
	return sessionValid(s.DB.WithContext(ctx), jti)
}

// RevokeSessionByHash marks the session for the given token hash revoked.
// Revoking an unknown or already revoked token is not an error.
func (s *Store) RevokeSessionByHash(ctx context.Context, tokenHash string) error {
	return s.DB.WithContext(ctx).Model(&models.RefreshSession{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// RotateSession revokes the old session and registers the new one in a
// single transaction, so a concurrent reader never sees both valid or both
// gone. Returns apperr.ErrTokenRevoked when the old session is not usable.
func (s *Store) RotateSession(ctx context.Context, oldJTI string, next *models.RefreshSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := sessionValid(tx, oldJTI)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrTokenRevoked
		}

		if err := tx.Model(&models.RefreshSession{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return err
		}

		return tx.Create(next).Error
	})
}

package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
)

type ListFilter struct {
	Pclass   *int
	Sex      string
	Embarked string
	Offset   int
	Limit    int
}

func (s *Store) List(ctx context.Context, f ListFilter) (int64, []models.Passenger, error) {
	q := s.DB.WithContext(ctx).Model(&models.Passenger{})
	if f.Pclass != nil {
		q = q.Where("pclass = ?", *f.Pclass)
	}
	if f.Sex != "" {
		q = q.Where("sex = ?", f.Sex)
	}
	if f.Embarked != "" {
		q = q.Where("embarked = ?", f.Embarked)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Passenger, 0, f.Limit)
	if err := q.Order("id ASC").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *Store) SearchByName(ctx context.Context, name string, offset, limit int) (int64, []models.Passenger, error) {
	pattern := "%" + strings.ToLower(name) + "%"
	q := s.DB.WithContext(ctx).Model(&models.Passenger{}).Where("LOWER(name) LIKE ?", pattern)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Passenger, 0, limit)
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.Passenger, error) {
	var p models.Passenger
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// cabinRuleViolated reports whether another record holds the same cabin
// with a different ticket class. Records without a cabin never conflict.
func cabinRuleViolated(tx *gorm.DB, cabin *string, pclass int, excludeID uint) (bool, error) {
	if cabin == nil || *cabin == "" {
		return false, nil
	}
	var count int64
	q := tx.Model(&models.Passenger{}).
		Where("cabin = ?", *cabin).
		Where("pclass <> ?", pclass)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists the record after the cabin-sharing check, both inside
// one transaction so two concurrent writes cannot slip past each other.
func (s *Store) Create(ctx context.Context, p *models.Passenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		violated, err := cabinRuleViolated(tx, p.Cabin, p.Pclass, 0)
		if err != nil {
			return err
		}
		if violated {
			return apperr.ErrCabinConflict
		}
		return tx.Create(p).Error
	})
}

// Update replaces the mutable fields of an existing record. CreatedBy and
// the id survive the update unchanged.
func (s *Store) Update(ctx context.Context, id uint, p *models.Passenger) (*models.Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing models.Passenger
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		violated, err := cabinRuleViolated(tx, p.Cabin, p.Pclass, id)
		if err != nil {
			return err
		}
		if violated {
			return apperr.ErrCabinConflict
		}

		existing.Name = p.Name
		existing.Pclass = p.Pclass
		existing.Sex = p.Sex
		existing.Age = p.Age
		existing.Fare = p.Fare
		existing.Embarked = p.Embarked
		existing.Destination = p.Destination
		existing.Cabin = p.Cabin
		existing.Ticket = p.Ticket

		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.DB.WithContext(ctx).Delete(&models.Passenger{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.DB.WithContext(ctx).Model(&models.Passenger{}).Count(&total).Error
	return total, err
}

// Seed bulk-inserts preloaded records, keeping their original ids.
func (s *Store) Seed(ctx context.Context, passengers []models.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.WithContext(ctx).CreateInBatches(passengers, 200).Error
}

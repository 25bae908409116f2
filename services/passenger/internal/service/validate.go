package service

import (
	"slices"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
)

// ValidateFields applies the per-field range and enum checks. The returned
// error names the first offending field.
func ValidateFields(p *models.Passenger) error {
	if len(p.Name) < 1 || len(p.Name) > 200 {
		return apperr.ErrValidation.WithField("name")
	}
	if p.Pclass < 1 || p.Pclass > 3 {
		return apperr.ErrValidation.WithField("pclass")
	}
	if p.Sex != models.SexMale && p.Sex != models.SexFemale {
		return apperr.ErrValidation.WithField("sex")
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return apperr.ErrValidation.WithField("age")
	}
	if p.Fare < 0 {
		return apperr.ErrValidation.WithField("fare")
	}
	if !slices.Contains(models.EmbarkPorts, p.Embarked) {
		return apperr.ErrValidation.WithField("embarked")
	}
	if len(p.Destination) < 1 || len(p.Destination) > 200 {
		return apperr.ErrValidation.WithField("destination")
	}
	if p.Cabin != nil && len(*p.Cabin) > 50 {
		return apperr.ErrValidation.WithField("cabin")
	}
	if len(p.Ticket) > 50 {
		return apperr.ErrValidation.WithField("ticket")
	}
	return nil
}

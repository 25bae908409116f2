package service

import (
	"context"
	"strconv"

	"github.com/titaniclabs/titanic-api/pkg/events"
	"github.com/titaniclabs/titanic-api/pkg/logging"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/repo"
	"github.com/titaniclabs/titanic-api/services/passenger/internal/search"
)

type PassengerService struct {
	Repo   *repo.Store
	Events *events.Producer
	Search *search.Client
}

func (s *PassengerService) List(ctx context.Context, f repo.ListFilter) (int64, []models.Passenger, error) {
	return s.Repo.List(ctx, f)
}

// SearchByName uses elasticsearch when configured and falls back to a
// store scan otherwise.
func (s *PassengerService) SearchByName(ctx context.Context, name string, offset, limit int) (int64, []models.Passenger, error) {
	if s.Search.Enabled() {
		total, items, err := s.Search.SearchByName(ctx, name, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_fallback", "error", err)
	}
	return s.Repo.SearchByName(ctx, name, offset, limit)
}

func (s *PassengerService) Get(ctx context.Context, id uint) (*models.Passenger, error) {
	return s.Repo.GetByID(ctx, id)
}

// Create validates the fields, then persists the record; the cabin-sharing
// rule runs inside the store write. CreatedBy comes from the caller's
// verified identity, never from the request body.
func (s *PassengerService) Create(ctx context.Context, p models.Passenger, createdBy string) (*models.Passenger, error) {
	l := logging.FromContext(ctx).With("svc", "passenger.create")

	if err := ValidateFields(&p); err != nil {
		return nil, err
	}
	p.ID = 0
	p.CreatedBy = createdBy

	if err := s.Repo.Create(ctx, &p); err != nil {
		l.Warn("create_failed", "error", err)
		return nil, err
	}

	s.afterWrite(ctx, &p, "passenger_created")
	l.Info("passenger_created", "id", p.ID, "created_by", createdBy)
	return &p, nil
}

func (s *PassengerService) Update(ctx context.Context, id uint, p models.Passenger) (*models.Passenger, error) {
	l := logging.FromContext(ctx).With("svc", "passenger.update", "id", id)

	if err := ValidateFields(&p); err != nil {
		return nil, err
	}

	updated, err := s.Repo.Update(ctx, id, &p)
	if err != nil {
		l.Warn("update_failed", "error", err)
		return nil, err
	}

	s.afterWrite(ctx, updated, "passenger_updated")
	l.Info("passenger_updated")
	return updated, nil
}

func (s *PassengerService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "passenger.delete", "id", id)

	if err := s.Repo.Delete(ctx, id); err != nil {
		l.Warn("delete_failed", "error", err)
		return err
	}

	if err := s.Search.DeletePassenger(ctx, id); err != nil {
		l.Warn("search_delete_failed", "error", err)
	}
	if err := s.Events.Publish(ctx, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type": "passenger_deleted",
		"id":   id,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("passenger_deleted")
	return nil
}

func (s *PassengerService) Count(ctx context.Context) (int64, error) {
	return s.Repo.Count(ctx)
}

// afterWrite handles the best-effort side channels: the search index and
// the event stream. Failures are logged, never surfaced to the client.
func (s *PassengerService) afterWrite(ctx context.Context, p *models.Passenger, eventType string) {
	l := logging.FromContext(ctx)

	if err := s.Search.IndexPassenger(ctx, p); err != nil {
		l.Warn("search_index_failed", "id", p.ID, "error", err)
	}
	if err := s.Events.Publish(ctx, strconv.FormatUint(uint64(p.ID), 10), map[string]any{
		"type":       eventType,
		"id":         p.ID,
		"name":       p.Name,
		"created_by": p.CreatedBy,
	}); err != nil {
		l.Warn("event_publish_failed", "id", p.ID, "error", err)
	}
}

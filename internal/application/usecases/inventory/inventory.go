package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	domain "ticketing/internal/domain/inventory"
	"ticketing/internal/keylock"
	"ticketing/internal/observability"
)

type Repository interface {
	CreateVenue(ctx context.Context, venue domain.Venue) (int64, error)
	GetVenue(ctx context.Context, id int64) (domain.Venue, error)
	CreateEvent(ctx context.Context, event domain.Event) (int64, error)
	GetEvent(ctx context.Context, id int64) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	Decrement(ctx context.Context, eventID, count int64, idempotencyKey string) (domain.DecrementResult, error)
}

// Service is the inventory store. Decrement is the single place capacity changes and
// runs under a per-event lock; reads never take it.
type Service struct {
	repo  Repository
	locks *keylock.Locker
}

func NewService(repo Repository, locks *keylock.Locker) *Service {
	return &Service{
		repo:  repo,
		locks: locks,
	}
}

func (s *Service) ReadCapacity(ctx context.Context, eventID int64) (domain.Event, error) {
	return s.repo.GetEvent(ctx, eventID)
}

func (s *Service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *Service) GetVenue(ctx context.Context, venueID int64) (domain.Venue, error) {
	return s.repo.GetVenue(ctx, venueID)
}

func (s *Service) CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	if venue.TotalCapacity < 0 {
		return domain.Venue{}, fmt.Errorf("total capacity %d: %w", venue.TotalCapacity, domain.ErrInvalidCount)
	}

	id, err := s.repo.CreateVenue(ctx, venue)
	if err != nil {
		return domain.Venue{}, err
	}
	venue.ID = id

	return venue, nil
}

func (s *Service) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if event.RemainingCapacity < 0 {
		return domain.Event{}, fmt.Errorf("capacity %d: %w", event.RemainingCapacity, domain.ErrInvalidCount)
	}
	if event.TicketPrice.IsNegative() {
		return domain.Event{}, fmt.Errorf("ticket price %s must not be negative", event.TicketPrice)
	}

	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}

	return s.repo.GetEvent(ctx, id)
}

// Decrement takes count tickets from eventID. When capacity does not cover count,
// remaining is clamped to zero and the result reports the oversold amount; this is an
// outcome, not an error. A repeated idempotencyKey returns the first result unchanged.
func (s *Service) Decrement(
	ctx context.Context,
	eventID int64,
	count int64,
	idempotencyKey string,
) (domain.DecrementResult, error) {
	if count <= 0 {
		return domain.DecrementResult{}, fmt.Errorf("count %d: %w", count, domain.ErrInvalidCount)
	}

	unlock, err := s.locks.Lock(ctx, strconv.FormatInt(eventID, 10))
	if err != nil {
		return domain.DecrementResult{}, fmt.Errorf("failed to lock event %d: %w", eventID, err)
	}
	defer unlock()

	result, err := s.repo.Decrement(ctx, eventID, count, idempotencyKey)
	if err != nil {
		observability.InventoryDecrementsTotal.WithLabelValues("error").Inc()
		return domain.DecrementResult{}, err
	}

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":        eventID,
		"requested":       count,
		"remaining":       result.Remaining,
		"idempotency_key": idempotencyKey,
	})

	switch {
	case result.Duplicate:
		observability.InventoryDecrementsTotal.WithLabelValues("duplicate").Inc()
		logger.Info("Decrement already applied")
	case result.Oversold():
		observability.InventoryDecrementsTotal.WithLabelValues("oversold").Inc()
		observability.OversoldTicketsTotal.Add(float64(result.OversoldBy))
		logger.WithField("oversold_by", result.OversoldBy).Warn("Event oversold, capacity clamped to zero")
	default:
		observability.InventoryDecrementsTotal.WithLabelValues("applied").Inc()
		logger.Info("Capacity decremented")
	}

	return result, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "ticketing/internal/domain/inventory"
)

type InventoryRepo struct {
	mu         sync.Mutex
	venues     map[int64]domain.Venue
	events     map[int64]domain.Event
	decrements map[string]domain.DecrementResult
	nextVenue  int64
	nextEvent  int64
}

func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{
		venues:     make(map[int64]domain.Venue),
		events:     make(map[int64]domain.Event),
		decrements: make(map[string]domain.DecrementResult),
	}
}

func (r *InventoryRepo) CreateVenue(_ context.Context, venue domain.Venue) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextVenue++
	venue.ID = r.nextVenue
	r.venues[venue.ID] = venue

	return venue.ID, nil
}

func (r *InventoryRepo) GetVenue(_ context.Context, id int64) (domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	venue, ok := r.venues[id]
	if !ok {
		return domain.Venue{}, fmt.Errorf("venue %d: %w", id, domain.ErrVenueNotFound)
	}

	return venue, nil
}

func (r *InventoryRepo) CreateEvent(_ context.Context, event domain.Event) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	venue, ok := r.venues[event.Venue.ID]
	if !ok {
		return 0, fmt.Errorf("venue %d: %w", event.Venue.ID, domain.ErrVenueNotFound)
	}

	r.nextEvent++
	event.ID = r.nextEvent
	event.Venue = venue
	r.events[event.ID] = event

	return event.ID, nil
}

func (r *InventoryRepo) GetEvent(_ context.Context, id int64) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %d: %w", id, domain.ErrEventNotFound)
	}

	return event, nil
}

func (r *InventoryRepo) ListEvents(_ context.Context) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID < events[j].ID
	})

	return events, nil
}

func (r *InventoryRepo) Decrement(
	_ context.Context,
	eventID int64,
	count int64,
	idempotencyKey string,
) (domain.DecrementResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[eventID]
	if !ok {
		return domain.DecrementResult{}, fmt.Errorf("event %d: %w", eventID, domain.ErrEventNotFound)
	}

	if applied, ok := r.decrements[idempotencyKey]; ok {
		applied.Duplicate = true
		return applied, nil
	}

	result := domain.ApplyDecrement(eventID, event.RemainingCapacity, count)
	event.RemainingCapacity = result.Remaining
	r.events[eventID] = event
	r.decrements[idempotencyKey] = result

	return result, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	domain "ticketing/internal/domain/inventory"
)

type InventoryRepo struct {
	db        *sqlx.DB
	getter    *trmsqlx.CtxGetter
	trManager *trmanager.Manager
}

func NewInventoryRepo(
	db *sqlx.DB,
	getter *trmsqlx.CtxGetter,
	trManager *trmanager.Manager,
) *InventoryRepo {
	return &InventoryRepo{
		db:        db,
		getter:    getter,
		trManager: trManager,
	}
}

type eventRow struct {
	ID                 int64           `db:"id"`
	Name               string          `db:"name"`
	LeftCapacity       int64           `db:"left_capacity"`
	TicketPrice        decimal.Decimal `db:"ticket_price"`
	VenueID            int64           `db:"venue_id"`
	VenueName          string          `db:"venue_name"`
	VenueTotalCapacity int64           `db:"venue_total_capacity"`
}

func (r eventRow) toDomain() domain.Event {
	return domain.Event{
		ID:                r.ID,
		Name:              r.Name,
		RemainingCapacity: r.LeftCapacity,
		TicketPrice:       r.TicketPrice,
		Venue: domain.Venue{
			ID:            r.VenueID,
			Name:          r.VenueName,
			TotalCapacity: r.VenueTotalCapacity,
		},
	}
}

const selectEvents = `
	SELECT
		e.id, e.name, e.left_capacity, e.ticket_price,
		v.id AS venue_id, v.name AS venue_name, v.total_capacity AS venue_total_capacity
	FROM events e
	JOIN venues v ON v.id = e.venue_id`

func (r *InventoryRepo) CreateVenue(ctx context.Context, venue domain.Venue) (int64, error) {
	var id int64

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO venues (name, total_capacity)
		VALUES ($1, $2)
		RETURNING id`,
		venue.Name,
		venue.TotalCapacity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create venue: %w", err)
	}

	return id, nil
}

func (r *InventoryRepo) GetVenue(ctx context.Context, id int64) (domain.Venue, error) {
	var venue domain.Venue

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, total_capacity
		FROM venues
		WHERE id = $1`, id).
		Scan(&venue.ID, &venue.Name, &venue.TotalCapacity)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Venue{}, fmt.Errorf("venue %d: %w", id, domain.ErrVenueNotFound)
	}
	if err != nil {
		return domain.Venue{}, fmt.Errorf("failed to get venue: %w", err)
	}

	return venue, nil
}

func (r *InventoryRepo) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	var id int64

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO events (name, venue_id, left_capacity, ticket_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		event.Name,
		event.Venue.ID,
		event.RemainingCapacity,
		event.TicketPrice,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	return id, nil
}

func (r *InventoryRepo) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	var row eventRow

	err := r.db.GetContext(ctx, &row, selectEvents+` WHERE e.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %d: %w", id, domain.ErrEventNotFound)
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to get event: %w", err)
	}

	return row.toDomain(), nil
}

func (r *InventoryRepo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var rows []eventRow

	err := r.db.SelectContext(ctx, &rows, selectEvents+` ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}

	return events, nil
}

type decrementRow struct {
	EventID    int64 `db:"event_id"`
	Requested  int64 `db:"requested"`
	Remaining  int64 `db:"remaining"`
	OversoldBy int64 `db:"oversold_by"`
}

// Decrement takes count tickets from the event inside one transaction holding the
// event row lock, so concurrent decrements of one event apply one after another, also
// across service instances. Capacity is clamped at zero and the shortfall reported.
// A repeated idempotency key returns the recorded result without touching capacity.
func (r *InventoryRepo) Decrement(
	ctx context.Context,
	eventID int64,
	count int64,
	idempotencyKey string,
) (domain.DecrementResult, error) {
	var result domain.DecrementResult

	err := r.trManager.DoWithSettings(
		ctx,
		trmsql.MustSettings(
			settings.Must(settings.WithCancelable(true)),
			trmsql.WithTxOptions(&sql.TxOptions{Isolation: sql.LevelReadCommitted}),
		),
		func(ctx context.Context) error {
			tr := r.getter.DefaultTrOrDB(ctx, r.db)

			var left int64
			err := tr.GetContext(ctx, &left, `
				SELECT left_capacity
				FROM events
				WHERE id = $1
				FOR UPDATE`, eventID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("event %d: %w", eventID, domain.ErrEventNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to lock event: %w", err)
			}

			var applied decrementRow
			err = tr.GetContext(ctx, &applied, `
				SELECT event_id, requested, remaining, oversold_by
				FROM inventory_decrements
				WHERE idempotency_key = $1`, idempotencyKey)
			if err == nil {
				result = domain.DecrementResult{
					EventID:    applied.EventID,
					Requested:  applied.Requested,
					Remaining:  applied.Remaining,
					OversoldBy: applied.OversoldBy,
					Duplicate:  true,
				}
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to check applied decrement: %w", err)
			}

			result = domain.ApplyDecrement(eventID, left, count)

			_, err = tr.ExecContext(ctx, `
				UPDATE events
				SET left_capacity = $2
				WHERE id = $1`, eventID, result.Remaining)
			if err != nil {
				return fmt.Errorf("failed to update capacity: %w", err)
			}

			_, err = tr.ExecContext(ctx, `
				INSERT INTO inventory_decrements (
					idempotency_key, event_id, requested, remaining, oversold_by
				) VALUES (
					$1, $2, $3, $4, $5
				)`,
				idempotencyKey,
				eventID,
				result.Requested,
				result.Remaining,
				result.OversoldBy,
			)
			if err != nil {
				return fmt.Errorf("failed to record decrement: %w", err)
			}

			return nil
		})
	if err != nil {
		return domain.DecrementResult{}, err
	}

	return result, nil
}

package repository

import (
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
)

func InitializeBookingSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS customers (
	id BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	address VARCHAR(255) NOT NULL DEFAULT ''
);`)
	if err != nil {
		return fmt.Errorf("failed to create customers table: %w", err)
	}

	return nil
}

func InitializeInventorySchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS venues (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	total_capacity BIGINT NOT NULL CHECK (total_capacity >= 0)
);`)
	if err != nil {
		return fmt.Errorf("failed to create venues table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS events (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	venue_id BIGINT NOT NULL REFERENCES venues (id),
	left_capacity BIGINT NOT NULL CHECK (left_capacity >= 0),
	ticket_price NUMERIC(10, 2) NOT NULL CHECK (ticket_price >= 0)
);`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS inventory_decrements (
	idempotency_key VARCHAR(255) PRIMARY KEY,
	event_id BIGINT NOT NULL REFERENCES events (id),
	requested BIGINT NOT NULL,
	remaining BIGINT NOT NULL,
	oversold_by BIGINT NOT NULL,
	applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);`)
	if err != nil {
		return fmt.Errorf("failed to create inventory_decrements table: %w", err)
	}

	return nil
}

func InitializeOrderSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	booking_id UUID NOT NULL UNIQUE,
	customer_id BIGINT NOT NULL,
	event_id BIGINT NOT NULL,
	ticket_count BIGINT NOT NULL,
	total_price NUMERIC(12, 2) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL,
	status VARCHAR(32) NOT NULL,
	oversold_by BIGINT NOT NULL DEFAULT 0,
	reconciliation_reason VARCHAR(64) NOT NULL DEFAULT '',
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);`)
	if err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status);`)
	if err != nil {
		return fmt.Errorf("failed to create orders status index: %w", err)
	}

	return nil
}

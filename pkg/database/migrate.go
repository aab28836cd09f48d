package database

import (
	"context"
	"fmt"
)

// Migrate creates the schema if it does not exist. Statements are
// idempotent so startup can always run them.
func Migrate(ctx context.Context, db PgxIface) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(30) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			phone VARCHAR(10),
			role VARCHAR(20) NOT NULL DEFAULT 'customer',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			token UUID NOT NULL UNIQUE,
			user_agent TEXT,
			ip_address VARCHAR(45),
			expires_at TIMESTAMPTZ NOT NULL,
			revoked_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS buses (
			id UUID PRIMARY KEY,
			operator_name VARCHAR(100) NOT NULL,
			bus_number VARCHAR(20) NOT NULL UNIQUE,
			bus_type VARCHAR(20) NOT NULL,
			registration_number VARCHAR(20) NOT NULL,
			total_seats INT NOT NULL,
			layout_rows INT NOT NULL,
			layout_columns INT NOT NULL,
			amenities TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS seats (
			id UUID PRIMARY KEY,
			bus_id UUID NOT NULL REFERENCES buses(id),
			seat_number VARCHAR(5) NOT NULL,
			seat_row INT NOT NULL,
			seat_column INT NOT NULL,
			seat_type VARCHAR(10) NOT NULL,
			price_delta NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (bus_id, seat_number)
		)`,

		`CREATE TABLE IF NOT EXISTS routes (
			id UUID PRIMARY KEY,
			from_city VARCHAR(60) NOT NULL,
			from_state VARCHAR(60) NOT NULL,
			to_city VARCHAR(60) NOT NULL,
			to_state VARCHAR(60) NOT NULL,
			distance_km INT NOT NULL,
			estimated_minutes INT NOT NULL,
			route_type VARCHAR(20) NOT NULL DEFAULT 'Ordinary',
			is_active BOOLEAN NOT NULL DEFAULT true,
			is_popular BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS schedules (
			id UUID PRIMARY KEY,
			bus_id UUID NOT NULL REFERENCES buses(id),
			route_id UUID NOT NULL REFERENCES routes(id),
			travel_date DATE NOT NULL,
			departure_time VARCHAR(5) NOT NULL,
			arrival_time VARCHAR(5) NOT NULL,
			base_price NUMERIC(10,2) NOT NULL,
			total_seats INT NOT NULL,
			available_seats INT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (available_seats >= 0)
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			reference VARCHAR(20) NOT NULL UNIQUE,
			user_id UUID NOT NULL REFERENCES users(id),
			schedule_id UUID NOT NULL REFERENCES schedules(id),
			total_seats INT NOT NULL,
			total_amount NUMERIC(10,2) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			payment_ref VARCHAR(100),
			payment_method VARCHAR(20),
			contact_email VARCHAR(255) NOT NULL,
			contact_phone VARCHAR(10) NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			cancellation_reason TEXT,
			cancelled_at TIMESTAMPTZ,
			refund_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS seat_claims (
			id UUID PRIMARY KEY,
			schedule_id UUID NOT NULL REFERENCES schedules(id),
			seat_id UUID NOT NULL REFERENCES seats(id),
			booking_id UUID NOT NULL REFERENCES bookings(id),
			claimed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			released_at TIMESTAMPTZ
		)`,

		// One active claim per seat per schedule. The conditional insert
		// in the claim transaction relies on this index.
		`CREATE UNIQUE INDEX IF NOT EXISTS seat_claims_active_uniq
			ON seat_claims (schedule_id, seat_id)
			WHERE released_at IS NULL`,

		`CREATE TABLE IF NOT EXISTS booking_passengers (
			id UUID PRIMARY KEY,
			booking_id UUID NOT NULL REFERENCES bookings(id),
			seat_id UUID NOT NULL REFERENCES seats(id),
			seat_number VARCHAR(5) NOT NULL,
			name VARCHAR(100) NOT NULL,
			age INT NOT NULL,
			gender VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id)`,
		`CREATE INDEX IF NOT EXISTS bookings_expiry_idx ON bookings (status, expires_at)`,
		`CREATE INDEX IF NOT EXISTS schedules_route_date_idx ON schedules (route_id, travel_date)`,
		`CREATE INDEX IF NOT EXISTS seat_claims_booking_idx ON seat_claims (booking_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	return nil
}

// Package ridedb persists simulated ride telemetry to SQLite: one row per
// ride session, one row per tick sample.
package ridedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/veloforge/ridesim/internal/sim"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the ride database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS rides (
			ride_id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			rider_mass_kg DOUBLE,
			bike_mass_kg DOUBLE
		);
		CREATE TABLE IF NOT EXISTS samples (
			ride_id TEXT NOT NULL,
			elapsed_seconds DOUBLE NOT NULL,
			power_watts INTEGER,
			speed_mps DOUBLE,
			cadence_rpm INTEGER,
			fatigue DOUBLE,
			noise DOUBLE,
			gear_front INTEGER,
			gear_rear INTEGER,
			target_cadence DOUBLE,
			FOREIGN KEY(ride_id) REFERENCES rides(ride_id)
		);
		CREATE INDEX IF NOT EXISTS idx_samples_ride ON samples(ride_id, elapsed_seconds);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db}, nil
}

// StartRide inserts a new ride row and returns its generated ID.
func (db *DB) StartRide(startedAt time.Time, params sim.PhysicsParameters) (string, error) {
	rideID := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO rides (ride_id, started_at, rider_mass_kg, bike_mass_kg) VALUES (?, ?, ?, ?)`,
		rideID, startedAt.UTC(), params.RiderMassKg, params.BikeMassKg,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert ride: %w", err)
	}
	return rideID, nil
}

// RecordSample appends one telemetry sample to a ride.
func (db *DB) RecordSample(rideID string, elapsedSeconds float64, st sim.SimulationState) error {
	_, err := db.Exec(
		`INSERT INTO samples (ride_id, elapsed_seconds, power_watts, speed_mps, cadence_rpm,
			fatigue, noise, gear_front, gear_rear, target_cadence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rideID, elapsedSeconds, st.PowerWatts, st.SpeedMps, st.CadenceRpm,
		st.Fatigue, st.Noise, st.Gear.Front, st.Gear.Rear, st.TargetCadence,
	)
	if err != nil {
		return fmt.Errorf("failed to record sample: %w", err)
	}
	return nil
}

// Sample is one persisted telemetry row.
type Sample struct {
	ElapsedSeconds float64
	State          sim.SimulationState
}

// Samples returns all samples for a ride ordered by elapsed time.
func (db *DB) Samples(rideID string) ([]Sample, error) {
	rows, err := db.Query(
		`SELECT elapsed_seconds, power_watts, speed_mps, cadence_rpm, fatigue, noise,
			gear_front, gear_rear, target_cadence
		 FROM samples WHERE ride_id = ? ORDER BY elapsed_seconds`,
		rideID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(
			&s.ElapsedSeconds, &s.State.PowerWatts, &s.State.SpeedMps, &s.State.CadenceRpm,
			&s.State.Fatigue, &s.State.Noise, &s.State.Gear.Front, &s.State.Gear.Rear,
			&s.State.TargetCadence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// RideSummary aggregates a ride's samples.
type RideSummary struct {
	RideID          string
	SampleCount     int
	DurationSeconds float64
	AvgPowerWatts   float64
	MaxSpeedMps     float64
}

// Summary computes aggregate statistics for a ride.
func (db *DB) Summary(rideID string) (RideSummary, error) {
	s := RideSummary{RideID: rideID}
	err := db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(elapsed_seconds), 0),
			COALESCE(AVG(power_watts), 0), COALESCE(MAX(speed_mps), 0)
		 FROM samples WHERE ride_id = ?`,
		rideID,
	).Scan(&s.SampleCount, &s.DurationSeconds, &s.AvgPowerWatts, &s.MaxSpeedMps)
	if err != nil {
		return s, fmt.Errorf("failed to summarise ride: %w", err)
	}
	return s, nil
}

// Rides lists ride IDs, most recent first.
func (db *DB) Rides() ([]string, error) {
	rows, err := db.Query(`SELECT ride_id FROM rides ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

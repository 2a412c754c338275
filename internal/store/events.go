package store

import (
	"context"
	"fmt"

	"eventhound/shared/go/models"
)

// SaveEvents upserts events by id. A conflicting id fully overwrites every
// field of the existing row; there is no partial merge.
func (s *Store) SaveEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, name, image_url, start_date, end_date, city, location)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id)
			DO UPDATE SET name = EXCLUDED.name, image_url = EXCLUDED.image_url,
			              start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
			              city = EXCLUDED.city, location = EXCLUDED.location
		`, e.ID, e.Name, e.ImageURL, e.StartDate, e.EndDate, e.City, e.Location); err != nil {
			return fmt.Errorf("upsert event %q: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// EventsByCity returns all cached events for a city, matched
// case-insensitively and sorted by start date ascending. Rows without a
// start date sort last, with id as the tiebreak. A city with nothing cached
// yields an empty slice, not an error.
func (s *Store) EventsByCity(ctx context.Context, city string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image_url, start_date, end_date, city, location
		FROM events
		WHERE UPPER(city) = UPPER($1)
		ORDER BY start_date ASC NULLS LAST, id ASC
	`, city)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.ImageURL, &e.StartDate, &e.EndDate, &e.City, &e.Location); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// ClearEvents removes every cached event. Maintenance path only.
func (s *Store) ClearEvents(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"eventhound/shared/go/models"
)

func strPtr(s string) *string { return &s }

const upsertEventQuery = `
			INSERT INTO events (id, name, image_url, start_date, end_date, city, location)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id)
			DO UPDATE SET name = EXCLUDED.name, image_url = EXCLUDED.image_url,
			              start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
			              city = EXCLUDED.city, location = EXCLUDED.location
		`

const selectEventsQuery = `
		SELECT id, name, image_url, start_date, end_date, city, location
		FROM events
		WHERE UPPER(city) = UPPER($1)
		ORDER BY start_date ASC NULLS LAST, id ASC
	`

func TestSaveEventsUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	events := []models.Event{
		{
			ID:        "e1",
			Name:      "Event 1",
			ImageURL:  strPtr("https://img/1.jpg"),
			StartDate: strPtr("2025-07-19"),
			City:      strPtr("Chicago"),
			Location:  strPtr("United Center, Chicago, IL"),
		},
		{
			ID:   "e2",
			Name: "Event 2",
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertEventQuery)).
		WithArgs("e1", "Event 1", strPtr("https://img/1.jpg"), strPtr("2025-07-19"), nil, strPtr("Chicago"), strPtr("United Center, Chicago, IL")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertEventQuery)).
		WithArgs("e2", "Event 2", nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.SaveEvents(context.Background(), events); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveEventsIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	events := []models.Event{{
		ID:       "e1",
		Name:     "Event 1",
		City:     strPtr("Chicago"),
		Location: strPtr("United Center, Chicago, IL"),
	}}

	// Re-saving identical rows issues the exact same upsert again; the second
	// save fully overwrites the first and leaves the cache unchanged.
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(upsertEventQuery)).
			WithArgs("e1", "Event 1", nil, nil, nil, strPtr("Chicago"), strPtr("United Center, Chicago, IL")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	for i := 0; i < 2; i++ {
		if err := s.SaveEvents(context.Background(), events); err != nil {
			t.Fatalf("SaveEvents (save %d): %v", i+1, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveEventsNothingToSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// No tx expected at all.
	if err := s.SaveEvents(context.Background(), nil); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveEventsRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertEventQuery)).
		WithArgs("e1", "Event 1", nil, nil, nil, nil, nil).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = s.SaveEvents(context.Background(), []models.Event{{ID: "e1", Name: "Event 1"}})
	if err == nil {
		t.Fatal("expected error but got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEventsByCity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsQuery)).
		WithArgs("chicago").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "image_url", "start_date", "end_date", "city", "location",
		}).
			AddRow("e1", "Event 1", "https://img/1.jpg", "2025-07-19", nil, "Chicago", "United Center, Chicago, IL").
			AddRow("e2", "Event 2", nil, nil, nil, "Chicago", nil))

	events, err := s.EventsByCity(context.Background(), "chicago")
	if err != nil {
		t.Fatalf("EventsByCity: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != "e1" || events[0].ImageURL == nil || *events[0].ImageURL != "https://img/1.jpg" {
		t.Fatalf("unexpected first event: %#v", events[0])
	}
	if events[1].ImageURL != nil || events[1].StartDate != nil || events[1].Location != nil {
		t.Fatalf("expected nil optional fields, got %#v", events[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEventsByCityEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsQuery)).
		WithArgs("Nowhere").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "image_url", "start_date", "end_date", "city", "location",
		}))

	events, err := s.EventsByCity(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("EventsByCity: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClearEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events`)).
		WillReturnResult(sqlmock.NewResult(0, 7))

	if err := s.ClearEvents(context.Background()); err != nil {
		t.Fatalf("ClearEvents: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

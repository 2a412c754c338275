package models

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestFormattedStartDate(t *testing.T) {
	tests := []struct {
		name string
		date *string
		want *string
	}{
		{
			name: "valid date",
			date: strPtr("2025-07-19"),
			want: strPtr("JUL 19, 2025"),
		},
		{
			name: "single digit day",
			date: strPtr("2024-01-02"),
			want: strPtr("JAN 2, 2024"),
		},
		{
			name: "unparseable date",
			date: strPtr("not-a-date"),
			want: nil,
		},
		{
			name: "missing date",
			date: nil,
			want: nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			e := Event{ID: "1", Name: "Event", StartDate: tc.date}
			got := e.FormattedStartDate()
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %q", *got)
				}
				return
			}
			if got == nil || *got != *tc.want {
				t.Fatalf("expected %q, got %v", *tc.want, got)
			}
		})
	}
}

func TestFilterEvents(t *testing.T) {
	events := []Event{
		{ID: "1", Name: "Concert A", Location: strPtr("United Center, Chicago, IL")},
		{ID: "2", Name: "Theater B", Location: strPtr("Steppenwolf, Chicago, IL")},
		{ID: "3", Name: "Festival C", Location: nil},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "empty query matches everything",
			query:   "",
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "match on name case-insensitively",
			query:   "concert",
			wantIDs: []string{"1"},
		},
		{
			name:    "match on location",
			query:   "steppenwolf",
			wantIDs: []string{"2"},
		},
		{
			name:    "location shared by several events",
			query:   "chicago",
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "nil location never matches",
			query:   "festival",
			wantIDs: []string{"3"},
		},
		{
			name:    "no match",
			query:   "opera",
			wantIDs: nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := FilterEvents(events, tc.query)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("expected %d events, got %d (%#v)", len(tc.wantIDs), len(got), got)
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Fatalf("expected event %q at %d, got %q", id, i, got[i].ID)
				}
			}
		})
	}
}

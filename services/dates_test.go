package services

import (
	"testing"
	"time"

	"github.com/hamzayazough/centris-scraper/models"
)

var testNow = time.Date(2026, time.August, 31, 15, 42, 0, 0, time.UTC)

func TestFirstDateFirstParseableWins(t *testing.T) {
	l := models.NewRawListing(map[string]any{
		"offer_date":  "not-a-date",
		"date_listed": "2024-03-01",
	})

	got := FirstDate(l, ListingDateKeys, testNow)
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("FirstDate = %v; want %v", got, want)
	}
}

func TestFirstDateSkipsEmptyValues(t *testing.T) {
	l := models.NewRawListing(map[string]any{
		"offer_date":   "",
		"listing_date": "March 1, 2024",
	})

	got := FirstDate(l, ListingDateKeys, testNow)
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("FirstDate = %v; want %v", got, want)
	}
}

func TestFirstDateFuzzyText(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"available from 2024-05-01 onwards", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{"Posted on Jan 5, 2024 by owner", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"move in 1 July 2024", time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		l := models.NewRawListing(map[string]any{"available_from": tt.raw})
		got := FirstDate(l, MoveInDateKeys, testNow)
		if !got.Equal(tt.want) {
			t.Errorf("FirstDate(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFirstDateFallsBackToToday(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"no candidate keys present", map[string]any{"unrelated": "2024-03-01"}},
		{"all candidates unparseable", map[string]any{
			"move-in-date":   "soon",
			"available_from": "flexible",
		}},
	}

	want := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		l := models.NewRawListing(tt.fields)
		got := FirstDate(l, MoveInDateKeys, testNow)
		if !got.Equal(want) {
			t.Errorf("%s: FirstDate = %v; want today %v", tt.name, got, want)
		}
	}
}

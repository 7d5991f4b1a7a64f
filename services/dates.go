package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/hamzayazough/centris-scraper/models"
)

// Candidate field names, in priority order, for the two date semantics
// carried by a listing.
var (
	ListingDateKeys = []string{"offer_date", "date_listed", "listing_date", "posted_on"}
	MoveInDateKeys  = []string{"move-in-date", "available_from"}
)

// dateLayouts are tried in order against the trimmed candidate value.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Embedded date-shaped tokens, for values where the date sits inside
// surrounding prose ("available from 2024-05-01 onwards").
var (
	isoDateRegexp   = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}`)
	proseDateRegexp = regexp.MustCompile(`(?i)(?:\d{1,2} )?(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.? ?(?:\d{1,2},? )?\d{4}`)
)

// FirstDate iterates candidate field names in priority order and returns the
// first present, non-empty value that parses as a date. Values that fail to
// parse are skipped, not fatal. When no candidate parses, now's calendar day
// is returned.
func FirstDate(l models.RawListing, keys []string, now time.Time) time.Time {
	for _, k := range keys {
		raw := strings.TrimSpace(l.Str(k))
		if raw == "" {
			continue
		}
		if d, ok := parseLenientDate(raw); ok {
			return d
		}
	}
	return truncateToDay(now)
}

// parseLenientDate accepts partial or fuzzy date text: the known layouts are
// tried on the full value first, then a date-shaped token is extracted from
// the surrounding text and re-tried.
func parseLenientDate(raw string) (time.Time, bool) {
	if d, ok := tryLayouts(raw); ok {
		return d, true
	}
	if tok := isoDateRegexp.FindString(raw); tok != "" {
		if d, ok := tryLayouts(tok); ok {
			return d, true
		}
	}
	if tok := proseDateRegexp.FindString(raw); tok != "" {
		if d, ok := tryLayouts(strings.TrimSpace(tok)); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func tryLayouts(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return truncateToDay(d), true
		}
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

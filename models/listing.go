package models

import "encoding/json"

// RawListing is one unprocessed item from the upstream dataset. The actor
// guarantees no fixed schema beyond a url and an address field, so the record
// is kept as a decoded JSON object and read through total accessors that
// degrade to zero values instead of failing on missing or malformed fields.
type RawListing struct {
	fields map[string]any
}

// NewRawListing wraps an already-decoded JSON object.
func NewRawListing(fields map[string]any) RawListing {
	return RawListing{fields: fields}
}

// UnmarshalJSON decodes the item into its underlying field map.
func (l *RawListing) UnmarshalJSON(data []byte) error {
	l.fields = make(map[string]any)
	return json.Unmarshal(data, &l.fields)
}

// Str returns the string value of a field, or "" when the field is absent
// or not a string.
func (l RawListing) Str(key string) string {
	s, _ := l.fields[key].(string)
	return s
}

// Float returns the numeric value of a field and whether it was present.
// JSON numbers decode as float64.
func (l RawListing) Float(key string) (float64, bool) {
	switch v := l.fields[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Int returns the integer value of a field and whether it was present.
func (l RawListing) Int(key string) (int, bool) {
	f, ok := l.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Truthy reports whether a field is present and truthy: non-zero numbers,
// non-empty strings, true booleans and non-empty collections all count.
func (l RawListing) Truthy(key string) bool {
	switch v := l.fields[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return false
}

// URL is the external listing link, the sole dedup key for this pipeline.
func (l RawListing) URL() string { return l.Str("url") }

// Place is the listing's address / place name.
func (l RawListing) Place() string { return l.Str("address") }

// Description is the scraped free-text description, possibly empty.
func (l RawListing) Description() string { return l.Str("description") }

// AdditionalFeatures is the scraped amenities blob, possibly empty.
func (l RawListing) AdditionalFeatures() string { return l.Str("additional_features") }

// Category is the listing's property category ("Apartment", "Condo", ...).
func (l RawListing) Category() string { return l.Str("category") }

// Coordinates returns the listing's latitude/longitude pair. ok is false
// when the coordinates object is absent or malformed.
func (l RawListing) Coordinates() (lat, lon float64, ok bool) {
	coords, isMap := l.fields["coordinates"].(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	lat, latOK := coords["latitude"].(float64)
	lon, lonOK := coords["longitude"].(float64)
	return lat, lon, latOK && lonOK
}

// BrokerPhone returns the first phone number of the first listing broker,
// or "" when no broker carries a number.
func (l RawListing) BrokerPhone() string {
	brokers, _ := l.fields["listing_brokers"].([]any)
	if len(brokers) == 0 {
		return ""
	}
	first, _ := brokers[0].(map[string]any)
	phones, _ := first["phone_numbers"].([]any)
	if len(phones) == 0 {
		return ""
	}
	phone, _ := phones[0].(string)
	return phone
}

// PhotoURLs returns the href of every photo object on the listing, in order,
// duplicates included. Photo entries without an href are skipped.
func (l RawListing) PhotoURLs() []string {
	photos, _ := l.fields["photos"].([]any)
	var urls []string
	for _, p := range photos {
		obj, _ := p.(map[string]any)
		if href, _ := obj["href"].(string); href != "" {
			urls = append(urls, href)
		}
	}
	return urls
}

package storage

import "github.com/hamzayazough/centris-scraper/models"

// Store is the persistence surface the ingestion pipeline runs against.
// All calls belong to one run-wide unit of work; nothing is visible to other
// connections until the caller commits.
type Store interface {
	// AccommodationExists reports whether an accommodation with the given
	// external details link has already been ingested.
	AccommodationExists(detailsLink string) (bool, error)

	// FindAddressID returns the id of the address with the given place name,
	// and whether one exists.
	FindAddressID(placeName string) (string, bool, error)

	InsertAddress(addr *models.Address) error
	InsertAccommodation(acc *models.Accommodation) error

	// InsertImageURL adds a URL to the global image pool; a no-op when the
	// URL is already present.
	InsertImageURL(imageURL string) error

	// LinkImage attaches an image URL to an accommodation; a no-op when the
	// pair already exists.
	LinkImage(accommodationID, imageURL string) error
}

// RawSnapshotWriter persists raw listings as they are consumed from the
// upstream source, for debugging and auditability.
type RawSnapshotWriter interface {
	WriteRaw(l models.RawListing) error
	Close() error
}

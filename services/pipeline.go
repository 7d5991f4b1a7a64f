package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hamzayazough/centris-scraper/models"
	"github.com/hamzayazough/centris-scraper/storage"
	"github.com/hamzayazough/centris-scraper/utils"
)

// Accommodations are always offered on a 12-month lease with roommates
// accepted; the upstream source carries neither field.
const (
	leaseDurationMonths = 12
	roommateAccepted    = true
)

// ListingSource yields raw listings one at a time. ok is false once the
// source is exhausted; an exhausted source is not restartable.
type ListingSource interface {
	Next() (l models.RawListing, ok bool, err error)
}

// Pipeline normalizes raw listings and inserts them into the store. It owns
// the run's mutable state (counters, clock) instead of leaving it in package
// globals, so concurrent runs in tests stay independent.
type Pipeline struct {
	store    storage.Store
	snapshot storage.RawSnapshotWriter // optional, may be nil
	logger   *utils.Logger
	now      func() time.Time
}

// NewPipeline builds a pipeline over the given store. snapshot may be nil to
// disable the raw CSV side-channel.
func NewPipeline(store storage.Store, snapshot storage.RawSnapshotWriter, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		snapshot: snapshot,
		logger:   logger,
		now:      time.Now,
	}
}

// Run consumes the source to exhaustion, processing listings strictly
// sequentially. Any persistence or source error aborts the run; the caller
// decides what to do with the open transaction. Malformed listing data never
// aborts a record — extractors degrade to defaults.
func (p *Pipeline) Run(src ListingSource) (*models.RunReport, error) {
	report := models.NewRunReport()
	start := time.Now()

	for {
		listing, ok, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("pipeline: read listing: %w", err)
		}
		if !ok {
			break
		}

		if p.snapshot != nil {
			if err := p.snapshot.WriteRaw(listing); err != nil {
				p.logger.Warn("[sync] raw snapshot write failed: %v", err)
			}
		}

		if err := p.process(listing, report); err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func (p *Pipeline) process(listing models.RawListing, report *models.RunReport) error {
	url := listing.URL()
	place := listing.Place()

	exists, err := p.store.AccommodationExists(url)
	if err != nil {
		return fmt.Errorf("pipeline: dedup check: %w", err)
	}
	if exists {
		p.logger.Debug("[sync] duplicate listing skipped: %s", url)
		report.RecordSkip()
		return nil
	}

	addressID, err := p.resolveAddress(listing, place)
	if err != nil {
		return err
	}

	desc := listing.Description()
	combined := listing.AdditionalFeatures() + " " + desc

	rent := 0.0
	if v, ok := listing.Float("price"); ok && v != 0 {
		rent = v
	} else if v, ok := PriceFromText(desc); ok {
		rent = v
	}

	var sqft *int
	if v, ok := listing.Int("living_sqft"); ok && v != 0 {
		sqft = &v
	} else if v, ok := listing.Int("net_sqft"); ok && v != 0 {
		sqft = &v
	} else if v, ok := SqftFromText(desc); ok {
		sqft = &v
	}

	var beds, baths, yearBuilt *int
	if v, ok := listing.Int("beds_total"); ok {
		beds = &v
	}
	if v, ok := listing.Int("baths_total"); ok {
		baths = &v
	}
	if v, ok := listing.Int("year_built"); ok {
		yearBuilt = &v
	}

	title := listing.Category()
	if desc == "" {
		desc = FallbackDescription(beds, title, place, rent)
	}

	pets := PetsAllowed(combined)
	smoking := SmokingAllowed(combined)

	acc := &models.Accommodation{
		ID:               uuid.New(),
		Title:            title,
		Description:      desc,
		RentPrice:        rent,
		NumBeds:          beds,
		NumBathrooms:     baths,
		SquareFootage:    sqft,
		ConstructionYear: yearBuilt,
		HasPool:          listing.Truthy("pool"),
		Gym:              HasGym(combined),
		ParkingIncluded:  listing.Truthy("parking_total") || listing.Truthy("parking_garage"),
		LeaseDuration:    leaseDurationMonths,
		RoommateAccepted: roommateAccepted,
		PetsAllowed:      pets,
		SmokingAllowed:   smoking,
		OwnerCellphone:   listing.BrokerPhone(),
		AddressID:        addressID,
		DetailsLink:      url,
		AvailableFrom:    FirstDate(listing, MoveInDateKeys, p.now()),
		OfferDate:        FirstDate(listing, ListingDateKeys, p.now()),
	}

	if err := p.store.InsertAccommodation(acc); err != nil {
		return fmt.Errorf("pipeline: insert accommodation: %w", err)
	}

	for _, href := range listing.PhotoURLs() {
		if err := p.store.InsertImageURL(href); err != nil {
			return fmt.Errorf("pipeline: insert image url: %w", err)
		}
		if err := p.store.LinkImage(acc.ID.String(), href); err != nil {
			return fmt.Errorf("pipeline: link image: %w", err)
		}
	}

	report.RecordInsert(place, rent)
	p.logger.Info("[sync] ✓ %s — rent=%.0f pets=%t smoke=%t",
		truncate(place, 40), rent, pets, smoking)
	return nil
}

// resolveAddress returns the id of the existing address with the listing's
// place name, or creates one from the listing's coordinates. On a hit the
// incoming coordinates are ignored. The lookup-then-insert runs inside the
// caller's single uncommitted transaction; a concurrent second run could
// still create a duplicate place under default isolation.
func (p *Pipeline) resolveAddress(listing models.RawListing, place string) (uuid.UUID, error) {
	id, found, err := p.store.FindAddressID(place)
	if err != nil {
		return uuid.Nil, fmt.Errorf("pipeline: find address: %w", err)
	}
	if found {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("pipeline: bad address id %q: %w", id, err)
		}
		return parsed, nil
	}

	lat, lon, _ := listing.Coordinates()
	addr := &models.Address{
		ID:        uuid.New(),
		PlaceName: place,
		Latitude:  lat,
		Longitude: lon,
	}
	if err := p.store.InsertAddress(addr); err != nil {
		return uuid.Nil, fmt.Errorf("pipeline: insert address: %w", err)
	}
	return addr.ID, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

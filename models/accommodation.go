package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a geocoded place. At most one row exists per distinct place
// name within this pipeline; rows are created lazily and never updated.
type Address struct {
	ID        uuid.UUID
	PlaceName string
	Latitude  float64
	Longitude float64
}

// Accommodation is the normalized, persisted representation of a listing.
// Optional numeric attributes are pointers so that "unknown" stays NULL in
// the store rather than collapsing to zero.
type Accommodation struct {
	ID               uuid.UUID
	Title            string
	Description      string
	RentPrice        float64 // 0 means unknown
	NumBeds          *int
	NumBathrooms     *int
	SquareFootage    *int
	ConstructionYear *int
	HasPool          bool
	Gym              bool
	ParkingIncluded  bool
	LeaseDuration    int  // always 12
	RoommateAccepted bool // always true
	PetsAllowed      bool
	SmokingAllowed   bool
	OwnerCellphone   string // empty means none
	AddressID        uuid.UUID
	DetailsLink      string // unique dedup key
	AvailableFrom    time.Time
	OfferDate        time.Time
}

// RunReport holds the counters and aggregates of one ingestion run.
type RunReport struct {
	Inserted int
	Skipped  int
	Elapsed  time.Duration

	InsertsByPlace map[string]int
	AverageRent    float64
	MinRent        float64
	MaxRent        float64
	priced         int
	rentTotal      float64
}

// NewRunReport returns an empty report ready to accumulate records.
func NewRunReport() *RunReport {
	return &RunReport{InsertsByPlace: make(map[string]int)}
}

// RecordInsert folds one inserted accommodation into the report.
func (r *RunReport) RecordInsert(place string, rent float64) {
	r.Inserted++
	if place != "" {
		r.InsertsByPlace[place]++
	}
	if rent > 0 {
		if r.priced == 0 || rent < r.MinRent {
			r.MinRent = rent
		}
		if rent > r.MaxRent {
			r.MaxRent = rent
		}
		r.priced++
		r.rentTotal += rent
		r.AverageRent = r.rentTotal / float64(r.priced)
	}
}

// RecordSkip folds one duplicate listing into the report.
func (r *RunReport) RecordSkip() {
	r.Skipped++
}

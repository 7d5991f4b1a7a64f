package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/hamzayazough/centris-scraper/models"
)

// PostgresStore owns the database connection and schema for the ingestion
// pipeline. Actual persistence happens through a Tx obtained from Begin, so
// a whole run commits atomically or not at all.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE EXTENSION IF NOT EXISTS postgis;

		CREATE TABLE IF NOT EXISTS addresses (
			id         UUID PRIMARY KEY,
			place_name TEXT NOT NULL,
			location   GEOGRAPHY(POINT, 4326)
		);

		CREATE TABLE IF NOT EXISTS accommodations (
			id                UUID PRIMARY KEY,
			title             TEXT,
			description       TEXT,
			rent_price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			num_beds          INT,
			num_bathrooms     INT,
			square_footage    INT,
			construction_date INT,
			has_pool          BOOLEAN NOT NULL DEFAULT FALSE,
			gym               BOOLEAN NOT NULL DEFAULT FALSE,
			parking_included  BOOLEAN NOT NULL DEFAULT FALSE,
			lease_duration    INT NOT NULL,
			roommate_accepted BOOLEAN NOT NULL,
			pets_allowed      BOOLEAN NOT NULL DEFAULT FALSE,
			smoking_allowed   BOOLEAN NOT NULL DEFAULT FALSE,
			owner_cellphone   TEXT,
			address_id        UUID REFERENCES addresses(id),
			details_link      TEXT NOT NULL,
			available_from    DATE,
			offer_date        DATE
		);

		CREATE INDEX IF NOT EXISTS idx_accommodations_details_link ON accommodations(details_link);
		CREATE INDEX IF NOT EXISTS idx_addresses_place_name        ON addresses(place_name);

		CREATE TABLE IF NOT EXISTS image_urls (
			image_url TEXT PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS accommodation_images (
			accommodation_id UUID NOT NULL,
			image_url        TEXT NOT NULL,
			PRIMARY KEY (accommodation_id, image_url)
		);
	`)
	return err
}

// Begin opens the run-wide transaction. Every statement of the run executes
// on this transaction; Commit makes the whole run visible at once.
func (ps *PostgresStore) Begin() (*Tx, error) {
	tx, err := ps.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Close closes the underlying connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// Tx is one run's unit of work. It implements Store.
type Tx struct {
	tx *sql.Tx
}

// AccommodationExists reports whether the details link has been ingested,
// either in a previous run or earlier in this uncommitted one.
func (t *Tx) AccommodationExists(detailsLink string) (bool, error) {
	var one int
	err := t.tx.QueryRow(
		`SELECT 1 FROM accommodations WHERE details_link = $1 LIMIT 1`, detailsLink,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: accommodation exists: %w", err)
	}
	return true, nil
}

// FindAddressID looks up an address by exact place-name match.
func (t *Tx) FindAddressID(placeName string) (string, bool, error) {
	var id string
	err := t.tx.QueryRow(
		`SELECT id FROM addresses WHERE place_name = $1 LIMIT 1`, placeName,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: find address: %w", err)
	}
	return id, true, nil
}

// InsertAddress stores a new address with its location as a WKT point,
// longitude first per the point-ordering convention.
func (t *Tx) InsertAddress(addr *models.Address) error {
	wkt := fmt.Sprintf("SRID=4326;POINT(%f %f)", addr.Longitude, addr.Latitude)
	_, err := t.tx.Exec(
		`INSERT INTO addresses (id, place_name, location) VALUES ($1, $2, $3)`,
		addr.ID.String(), addr.PlaceName, wkt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert address: %w", err)
	}
	return nil
}

// InsertAccommodation stores a normalized accommodation row.
func (t *Tx) InsertAccommodation(acc *models.Accommodation) error {
	var phone *string
	if acc.OwnerCellphone != "" {
		phone = &acc.OwnerCellphone
	}

	_, err := t.tx.Exec(`
		INSERT INTO accommodations (
			id, title, description, rent_price, num_beds, num_bathrooms, square_footage,
			construction_date, has_pool, gym, parking_included,
			lease_duration, roommate_accepted, pets_allowed, smoking_allowed,
			owner_cellphone, address_id, details_link, available_from, offer_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		acc.ID.String(), acc.Title, acc.Description, acc.RentPrice,
		acc.NumBeds, acc.NumBathrooms, acc.SquareFootage,
		acc.ConstructionYear, acc.HasPool, acc.Gym, acc.ParkingIncluded,
		acc.LeaseDuration, acc.RoommateAccepted, acc.PetsAllowed, acc.SmokingAllowed,
		phone, acc.AddressID.String(), acc.DetailsLink, acc.AvailableFrom, acc.OfferDate,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert accommodation: %w", err)
	}
	return nil
}

// InsertImageURL adds the URL to the global image pool, ignoring duplicates.
func (t *Tx) InsertImageURL(imageURL string) error {
	_, err := t.tx.Exec(
		`INSERT INTO image_urls (image_url) VALUES ($1) ON CONFLICT DO NOTHING`, imageURL,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert image url: %w", err)
	}
	return nil
}

// LinkImage attaches the image to the accommodation, ignoring duplicate pairs.
func (t *Tx) LinkImage(accommodationID, imageURL string) error {
	_, err := t.tx.Exec(`
		INSERT INTO accommodation_images (accommodation_id, image_url)
		VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, accommodationID, imageURL)
	if err != nil {
		return fmt.Errorf("postgres: link image: %w", err)
	}
	return nil
}

// Commit makes the run's inserts durable and visible.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Rollback discards the run. Safe to call after Commit; the resulting
// ErrTxDone is swallowed.
func (t *Tx) Rollback() {
	_ = t.tx.Rollback()
}

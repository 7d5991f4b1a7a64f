package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hamzayazough/centris-scraper/models"
)

// CSVWriter keeps a raw snapshot of every listing consumed from the upstream
// source. The source is single-pass, so rows are appended as the pipeline
// iterates rather than dumped after the fact.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"url", "address", "category", "price", "beds", "photos",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends one raw listing to the snapshot.
func (c *CSVWriter) WriteRaw(l models.RawListing) error {
	price := ""
	if p, ok := l.Float("price"); ok {
		price = strconv.FormatFloat(p, 'f', -1, 64)
	}
	beds := ""
	if b, ok := l.Int("beds_total"); ok {
		beds = strconv.Itoa(b)
	}

	row := []string{
		l.URL(),
		l.Place(),
		l.Category(),
		price,
		beds,
		strconv.Itoa(len(l.PhotoURLs())),
	}
	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

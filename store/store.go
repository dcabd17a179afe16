// Package store persists quotation records in an embedded Badger database.
//
// The store is the registry behind quotation numbering: numbers are issued
// sequentially within a fixed prefix, and one record exists per issued
// number. It is single-process storage; concurrent access from multiple
// processes is not supported.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"
)

const (
	// DefaultQuotationPrefix is the issuing series for quotation numbers.
	DefaultQuotationPrefix = "MIERAE/25-26/"

	// DefaultQuotationStart is the suffix of the first number issued in
	// the series.
	DefaultQuotationStart = 793
)

// ErrNotFound is returned when no record exists for a quotation number.
var ErrNotFound = errors.New("quotation not found")

// Record is one issued quotation.
type Record struct {
	QuotationNo     string `badgerhold:"key"`
	Product         string
	CustomerName    string
	Mobile          string
	Location        string
	City            string
	State           string
	Pincode         string
	StaffName       string
	DateOfQuotation string
	ValidityDate    string
	PDFPath         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Options configures Open.
type Options struct {
	// Path is the database directory.
	Path string

	// Reset deletes any existing database before opening.
	Reset bool

	// QuotationPrefix is the issuing series for quotation numbers. It
	// should end with "/"; the number suffix is parsed from the text
	// after the last slash. Defaults to DefaultQuotationPrefix.
	QuotationPrefix string

	// QuotationStart is the suffix of the first number issued when the
	// series is empty. Defaults to DefaultQuotationStart.
	QuotationStart int
}

// Store is the quotation registry.
type Store struct {
	db     *badgerhold.Store
	prefix string
	start  int
}

// Open opens (creating if needed) the registry at opts.Path.
func Open(opts Options) (*Store, error) {
	if opts.Reset {
		if _, err := os.Stat(opts.Path); err == nil {
			log.Debug().Str("path", opts.Path).Msg("deleting existing quotation database")
			if err := os.RemoveAll(opts.Path); err != nil {
				log.Warn().Err(err).Str("path", opts.Path).Msg("failed to delete database directory")
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = opts.Path
	options.ValueDir = opts.Path
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening quotation database: %w", err)
	}

	prefix := opts.QuotationPrefix
	if prefix == "" {
		prefix = DefaultQuotationPrefix
	}
	start := opts.QuotationStart
	if start <= 0 {
		start = DefaultQuotationStart
	}

	log.Debug().Str("path", opts.Path).Msg("quotation database opened")
	return &Store{db: db, prefix: prefix, start: start}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts a record under its quotation number, stamping CreatedAt on
// first save and UpdatedAt always.
func (s *Store) Save(rec *Record) error {
	if rec.QuotationNo == "" {
		return fmt.Errorf("quotation number is required")
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := s.db.Upsert(rec.QuotationNo, rec); err != nil {
		return fmt.Errorf("saving quotation %s: %w", rec.QuotationNo, err)
	}
	return nil
}

// Get returns the record for a quotation number, or ErrNotFound.
func (s *Store) Get(quotationNo string) (*Record, error) {
	var rec Record
	if err := s.db.Get(quotationNo, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading quotation %s: %w", quotationNo, err)
	}
	return &rec, nil
}

// Delete removes the record for a quotation number. Deleting an absent
// record is not an error.
func (s *Store) Delete(quotationNo string) error {
	if err := s.db.Delete(quotationNo, &Record{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("deleting quotation %s: %w", quotationNo, err)
	}
	log.Info().Str("quotation_no", quotationNo).Msg("quotation deleted")
	return nil
}

// Filter narrows List results. Empty fields match everything; string fields
// match as case-insensitive substrings.
type Filter struct {
	CustomerName string
	Mobile       string
	QuotationNo  string
}

// List returns records matching the filter, most recently created first.
func (s *Store) List(f Filter) ([]Record, error) {
	query := badgerhold.Where("QuotationNo").Ne("")
	if f.CustomerName != "" {
		query = query.And("CustomerName").RegExp(containsPattern(f.CustomerName))
	}
	if f.Mobile != "" {
		query = query.And("Mobile").RegExp(containsPattern(f.Mobile))
	}
	if f.QuotationNo != "" {
		query = query.And("QuotationNo").RegExp(containsPattern(f.QuotationNo))
	}

	var recs []Record
	if err := s.db.Find(&recs, query.SortBy("CreatedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}
	return recs, nil
}

func containsPattern(value string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(value))
}

// NextQuotationNo issues the next number in the series: one past the highest
// suffix already stored, or the series start for an empty registry.
func (s *Store) NextQuotationNo() (string, error) {
	var recs []Record
	err := s.db.Find(&recs, badgerhold.Where("QuotationNo").RegExp(
		regexp.MustCompile("^"+regexp.QuoteMeta(s.prefix))))
	if err != nil {
		return "", fmt.Errorf("scanning quotation series: %w", err)
	}

	next := s.start
	for _, rec := range recs {
		parts := strings.Split(rec.QuotationNo, "/")
		suffix, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		if suffix+1 > next {
			next = suffix + 1
		}
	}
	return fmt.Sprintf("%s%04d", s.prefix, next), nil
}

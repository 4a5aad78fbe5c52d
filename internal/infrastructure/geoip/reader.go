// Package geoip resolves client IP addresses to ISO country codes using a
// local MaxMind GeoLite2 or GeoIP2 Country database.
package geoip

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/safespace/backend/internal/domain/pricing"
)

// countryDB is the part of *geoip2.Reader used here
type countryDB interface {
	Country(ip net.IP) (*geoip2.Country, error)
	Close() error
}

// Reader looks up countries in an opened .mmdb file
type Reader struct {
	db countryDB
}

// Open opens the database at path
func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database %s: %w", path, err)
	}
	return &Reader{db: db}, nil
}

// Country returns the ISO 3166-1 alpha-2 code for ip, or "" when the address
// is not in the database
func (r *Reader) Country(ip net.IP) (string, error) {
	rec, err := r.db.Country(ip)
	if err != nil {
		return "", fmt.Errorf("geoip lookup: %w", err)
	}
	code := rec.Country.IsoCode
	if code == "" {
		// anonymous proxies and satellite providers only carry a registered country
		code = rec.RegisteredCountry.IsoCode
	}
	return strings.ToUpper(code), nil
}

// Close releases the memory-mapped database
func (r *Reader) Close() error {
	return r.db.Close()
}

var _ pricing.CountryLookup = (*Reader)(nil)

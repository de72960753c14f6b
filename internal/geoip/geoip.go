// Package geoip annotates decoded node hosts with a country code.
package geoip

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
	"sync"

	"github.com/maypok86/otter"
	"github.com/oschwald/maxminddb-golang"
)

// DefaultCacheEntries bounds the host → country cache.
const DefaultCacheEntries = 4096

// GeoReader abstracts the country database so tests can substitute it.
type GeoReader interface {
	Lookup(ip netip.Addr) string
	Close() error
}

// OpenFunc opens a country database file and returns a GeoReader.
type OpenFunc func(path string) (GeoReader, error)

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	RegisteredCountry struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"registered_country"`
}

// mmdbReader reads GeoLite2-Country style databases.
type mmdbReader struct {
	db *maxminddb.Reader
}

// MaxMindOpen is the production OpenFunc.
func MaxMindOpen(path string) (GeoReader, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, err
	}
	return &mmdbReader{db: db}, nil
}

func (r *mmdbReader) Lookup(ip netip.Addr) string {
	var record countryRecord
	if err := r.db.Lookup(net.IP(ip.AsSlice()), &record); err != nil {
		return ""
	}
	code := record.Country.ISOCode
	if code == "" {
		code = record.RegisteredCountry.ISOCode
	}
	return strings.ToLower(code)
}

func (r *mmdbReader) Close() error {
	return r.db.Close()
}

// Service resolves hosts to lowercase ISO 3166-1 alpha-2 codes. Only IP
// literal hosts are resolved; names are never looked up in DNS.
// A nil *Service is valid and resolves nothing.
type Service struct {
	reader GeoReader
	cache  otter.Cache[string, string]

	closeOnce sync.Once
}

// NewService wraps reader with a bounded lookup cache.
func NewService(reader GeoReader, cacheEntries int) (*Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("geoip: nil reader")
	}
	if cacheEntries <= 0 {
		cacheEntries = DefaultCacheEntries
	}
	cache, err := otter.MustBuilder[string, string](cacheEntries).
		Cost(func(_ string, _ string) uint32 { return 1 }).
		Build()
	if err != nil {
		return nil, fmt.Errorf("geoip: build cache: %w", err)
	}
	return &Service{reader: reader, cache: cache}, nil
}

// Open opens the database at path with open (MaxMindOpen when nil).
func Open(path string, cacheEntries int, open OpenFunc) (*Service, error) {
	if open == nil {
		open = MaxMindOpen
	}
	reader, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open %s: %w", path, err)
	}
	s, err := NewService(reader, cacheEntries)
	if err != nil {
		reader.Close()
		return nil, err
	}
	return s, nil
}

// Lookup returns the country code for host, or "" when host is not an IP
// literal or the database has no entry.
func (s *Service) Lookup(host string) string {
	if s == nil {
		return ""
	}
	ip, ok := parseHostIP(host)
	if !ok {
		return ""
	}
	key := ip.String()
	if code, found := s.cache.Get(key); found {
		return code
	}
	code := s.reader.Lookup(ip)
	s.cache.Set(key, code)
	return code
}

// Close releases the database. Safe to call more than once.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	var err error
	s.closeOnce.Do(func() {
		s.cache.Close()
		err = s.reader.Close()
	})
	return err
}

func parseHostIP(host string) (netip.Addr, bool) {
	host = strings.TrimSpace(host)
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

// Package position resolves the requester's geographic position for one
// request. Resolution is a single attempt: explicit coordinates from the
// client, an optional GeoIP fallback, or nothing. "Nothing" is not an error;
// downstream ranking simply runs in degraded mode.
package position

import (
	"net"
	"strconv"

	"github.com/oschwald/geoip2-golang"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
)

type Resolver struct {
	geoDB *geoip2.Reader
	log   logger.Logger
}

// NewResolver builds a resolver. geoIPPath may be empty, in which case the
// GeoIP fallback is disabled and only explicit client coordinates resolve.
func NewResolver(geoIPPath string, log logger.Logger) (*Resolver, error) {
	r := &Resolver{log: log}
	if geoIPPath != "" {
		db, err := geoip2.Open(geoIPPath)
		if err != nil {
			return nil, err
		}
		r.geoDB = db
	}
	return r, nil
}

func (r *Resolver) Close() error {
	if r.geoDB == nil {
		return nil
	}
	return r.geoDB.Close()
}

// Resolve turns the request's lat/lon parameters, or failing that the remote
// address, into a coordinate. Returns nil when no position can be
// determined; malformed input degrades rather than failing.
func (r *Resolver) Resolve(latParam, lonParam, remoteAddr string) *entity.Coordinate {
	if coord := parseExplicit(latParam, lonParam); coord != nil {
		return coord
	}
	if latParam != "" || lonParam != "" {
		r.log.Debugf("position: ignoring malformed coordinates lat=%q lon=%q", latParam, lonParam)
	}
	return r.lookupIP(remoteAddr)
}

func parseExplicit(latParam, lonParam string) *entity.Coordinate {
	if latParam == "" || lonParam == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil {
		return nil
	}
	coord := entity.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return nil
	}
	return &coord
}

func (r *Resolver) lookupIP(remoteAddr string) *entity.Coordinate {
	if r.geoDB == nil || remoteAddr == "" {
		return nil
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil
	}

	record, err := r.geoDB.City(ip)
	if err != nil {
		r.log.Debugf("position: geoip lookup failed for %s: %v", host, err)
		return nil
	}
	coord := entity.Coordinate{
		Latitude:  record.Location.Latitude,
		Longitude: record.Location.Longitude,
	}
	// The zero coordinate is what an unknown IP decodes to.
	if !coord.Valid() || (coord.Latitude == 0 && coord.Longitude == 0) {
		return nil
	}
	return &coord
}

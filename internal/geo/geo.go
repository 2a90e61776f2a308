// Package geo resolves country and city for an address from a local MaxMind
// database. It fills gaps only; collaborator data always wins.
package geo

import (
	"net"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"
)

// Place is a resolved location. Empty fields mean unknown.
type Place struct {
	Country string
	City    string
}

type cityRecord struct {
	Country struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
}

// Resolver looks addresses up in a GeoLite2/GeoIP2 City database.
type Resolver struct {
	db *maxminddb.Reader
}

// Open loads the database at path.
func Open(path string) (*Resolver, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open geoip db %s", path)
	}
	return &Resolver{db: db}, nil
}

// Lookup returns the English names for ip. Unparseable or unknown addresses
// yield an empty Place.
func (r *Resolver) Lookup(ip string) (Place, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Place{}, nil
	}
	var rec cityRecord
	if err := r.db.Lookup(parsed, &rec); err != nil {
		return Place{}, errors.Wrap(err, "geoip lookup")
	}
	return Place{
		Country: rec.Country.Names["en"],
		City:    rec.City.Names["en"],
	}, nil
}

func (r *Resolver) Close() error {
	return r.db.Close()
}

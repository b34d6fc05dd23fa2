// Package airports is the static airport directory used to geocode airports and to build
// name-keyed news queries.
package airports

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed airports.yaml
var builtin []byte

// Airport is one directory entry.
type Airport struct {
	Iata string  `yaml:"iata" json:"iata"`
	Name string  `yaml:"name" json:"name"`
	City string  `yaml:"city" json:"city"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lon  float64 `yaml:"lon" json:"lon"`
}

// Directory indexes airports by IATA code.
type Directory struct {
	byIata map[string]Airport
}

// Default parses the embedded directory.
func Default() (*Directory, error) {
	return Parse(builtin)
}

// Parse decodes a YAML list of airports.
func Parse(data []byte) (*Directory, error) {
	var list []Airport
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode airports: %w", err)
	}

	d := &Directory{byIata: make(map[string]Airport, len(list))}
	for i, a := range list {
		a.Iata = strings.ToUpper(strings.TrimSpace(a.Iata))
		if len(a.Iata) != 3 {
			return nil, fmt.Errorf("airport %d: invalid iata %q", i, a.Iata)
		}
		if a.Lat < -90 || a.Lat > 90 || a.Lon < -180 || a.Lon > 180 {
			return nil, fmt.Errorf("airport %s: coordinates out of range", a.Iata)
		}
		if _, dup := d.byIata[a.Iata]; dup {
			return nil, fmt.Errorf("airport %s: duplicate entry", a.Iata)
		}
		d.byIata[a.Iata] = a
	}
	return d, nil
}

// Lookup finds an airport by IATA code, case-insensitively.
func (d *Directory) Lookup(iata string) (Airport, bool) {
	a, ok := d.byIata[strings.ToUpper(strings.TrimSpace(iata))]
	return a, ok
}

// All returns every airport sorted by IATA code.
func (d *Directory) All() []Airport {
	out := make([]Airport, 0, len(d.byIata))
	for _, a := range d.byIata {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Iata < out[j].Iata })
	return out
}

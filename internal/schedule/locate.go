package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/waqt/internal/cache"
	"github.com/smokyabdulrahman/waqt/internal/geo"
)

// ErrCountryRequired is returned when a city is given without its country.
var ErrCountryRequired = errors.New("country is required when using a city")

// Detector finds the caller's location, typically from their IP address.
type Detector interface {
	Detect(ctx context.Context) (*geo.Location, error)
}

// Resolve settles where to compute for. Priority: coordinates, then city
// and country, then a cached geolocation, then a live lookup through d.
// A nil cache or detector skips that step.
func Resolve(ctx context.Context, want Location, c *cache.Cache, d Detector) (Location, error) {
	switch {
	case want.HasCoordinates():
		return want, nil
	case want.City != "":
		if want.Country == "" {
			return Location{}, ErrCountryRequired
		}
		return want, nil
	}

	if c != nil {
		if cached := c.LoadGeo(); cached != nil {
			log.Debug().Str("city", cached.City).Msg("using cached geolocation")
			return fromGeo(cached, want.Name), nil
		}
	}

	if d == nil {
		return Location{}, errors.New("no location specified")
	}
	detected, err := d.Detect(ctx)
	if err != nil {
		return Location{}, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if c != nil {
		if err := c.SaveGeo(detected); err != nil {
			log.Warn().Err(err).Msg("failed to cache geolocation")
		}
	}
	return fromGeo(detected, want.Name), nil
}

func fromGeo(g *geo.Location, name string) Location {
	if name == "" && g.City != "" {
		name = g.City
		if g.Country != "" {
			name += ", " + g.Country
		}
	}
	return Location{
		Latitude:  g.Latitude,
		Longitude: g.Longitude,
		City:      g.City,
		Country:   g.Country,
		Name:      name,
	}
}

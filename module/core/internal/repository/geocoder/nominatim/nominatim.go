package nominatim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gonominatim "github.com/doppiogancio/go-nominatim"
	"github.com/doppiogancio/go-nominatim/shared"
	"golang.org/x/text/language"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/geocoder"
)

var _ geocoder.Geocoder = (*Nominatim)(nil)

const (
	APITimeout = time.Second * 10
	name       = "osm-nominatim"
)

type reverseFunc func(latitude, longitude float64, lang string) (*shared.Address, error)

// Nominatim resolves coordinates through the public OSM Nominatim service.
type Nominatim struct {
	reverse reverseFunc
	lang    language.Tag
	timeout time.Duration
	logger  *logger.Logger
}

func New(lang language.Tag, log *logger.Logger) *Nominatim {
	return &Nominatim{
		reverse: gonominatim.ReverseGeocode,
		lang:    lang,
		timeout: APITimeout,
		logger:  log,
	}
}

func (n *Nominatim) Name() string {
	return name
}

// Reverse returns the leading component of the display name as the place
// name and the city as its locality. The underlying call takes no context,
// so a lookup that outlives ctx is abandoned rather than aborted.
func (n *Nominatim) Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	type result struct {
		address *shared.Address
		err     error
	}
	done := make(chan result, 1)
	go func() {
		address, err := n.reverse(coord.Lat, coord.Lon, n.lang.String())
		done <- result{address: address, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return domain.Place{}, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		return domain.Place{}, fmt.Errorf("failed reverse geocode coordinates: %w", res.err)
	}
	if res.address == nil {
		return domain.Place{}, errors.New("nominatim returned no address")
	}
	n.logger.Debug("address successfully resolved", "address", res.address.DisplayName)

	placeName, _, _ := strings.Cut(res.address.DisplayName, ",")
	return domain.Place{
		Name:     strings.TrimSpace(placeName),
		Locality: res.address.City,
	}, nil
}

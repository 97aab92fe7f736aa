package geocoder

import (
	"context"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error)
}

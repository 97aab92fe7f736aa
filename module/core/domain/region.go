package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownRegion = errors.New("unknown region")

// RegionName is the closed set of monitored regions. The string value is
// the identifier handed to the region monitor and the annotation title.
type RegionName string

const (
	School RegionName = "School"
	Park   RegionName = "Park"
)

// DefaultRadius is shared by both fences, in meters.
const DefaultRadius = 100

// ParseRegionName maps a monitor identifier back to a RegionName.
func ParseRegionName(identifier string) (RegionName, error) {
	switch RegionName(identifier) {
	case School, Park:
		return RegionName(identifier), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, identifier)
}

// WelcomeMessage is exhaustive over RegionName; a new region must add a case.
func (n RegionName) WelcomeMessage() (string, error) {
	switch n {
	case School:
		return "We welcome to school", nil
	case Park:
		return "We welcome to park", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, string(n))
}

type GeofenceDefinition struct {
	Name   RegionName `json:"name"`
	Center Coordinate `json:"center"`
	Radius float64    `json:"radius"`
}

// Contains reports whether c lies strictly inside the fence. A point at
// exactly Radius meters is outside.
func (d GeofenceDefinition) Contains(c Coordinate) bool {
	return c.DistanceTo(d.Center) < d.Radius
}

// Overlay is the styled circle drawn for the fence on the map.
func (d GeofenceDefinition) Overlay() Circle {
	return Circle{
		Center:      d.Center,
		Radius:      d.Radius,
		FillColor:   OverlayFillColor,
		StrokeColor: OverlayStrokeColor,
		Alpha:       OverlayAlpha,
	}
}

func (d GeofenceDefinition) Region() MonitoredRegion {
	return MonitoredRegion{
		Identifier:    string(d.Name),
		Center:        d.Center,
		Radius:        d.Radius,
		NotifyOnEntry: true,
		NotifyOnExit:  false,
	}
}

func DefaultRegions() []GeofenceDefinition {
	return []GeofenceDefinition{
		{Name: School, Center: Coordinate{Lat: 43.861433, Lon: -78.836460}, Radius: DefaultRadius},
		{Name: Park, Center: Coordinate{Lat: 43.861870, Lon: -78.832683}, Radius: DefaultRadius},
	}
}

// ValidateDefinitions enforces non-empty, unique names and a positive radius.
func ValidateDefinitions(defs []GeofenceDefinition) error {
	seen := make(map[RegionName]struct{}, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return errors.New("geofence: name required")
		}
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("geofence: duplicate name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		if d.Radius <= 0 {
			return fmt.Errorf("geofence %q: radius must be positive", d.Name)
		}
		if err := d.Center.Validate(); err != nil {
			return fmt.Errorf("geofence %q: %w", d.Name, err)
		}
	}
	return nil
}

// MonitoredRegion is what the location service watches. State about it is
// owned by the monitor and keyed by Identifier.
type MonitoredRegion struct {
	Identifier    string
	Center        Coordinate
	Radius        float64
	NotifyOnEntry bool
	NotifyOnExit  bool
}

type EntrySource string

const (
	EntryBoundary  EntrySource = "boundary"
	EntryProximity EntrySource = "proximity"
)

type RegionEntry struct {
	Region                RegionName  `json:"region"`
	Message               string      `json:"message"`
	Source                EntrySource `json:"source"`
	Foreground            bool        `json:"foreground"`
	NotificationScheduled bool        `json:"notification_scheduled"`
	OccurredAt            time.Time   `json:"occurred_at"`
}

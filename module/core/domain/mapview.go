package domain

import "math"

type Span struct {
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// DefaultSpan is used when the user asks to center on the current location.
var DefaultSpan = Span{LatitudeDelta: 0.01, LongitudeDelta: 0.01}

// SpanForDistance returns the span covering the given meters around center.
func SpanForDistance(center Coordinate, latMeters, lonMeters float64) Span {
	lonScale := metersPerDegreeLat * math.Cos(toRad(center.Lat))
	if lonScale <= 0 {
		lonScale = metersPerDegreeLat
	}
	return Span{
		LatitudeDelta:  latMeters / metersPerDegreeLat,
		LongitudeDelta: lonMeters / lonScale,
	}
}

type Viewport struct {
	Center Coordinate `json:"center"`
	Span   Span       `json:"span"`
}

// Fence overlays are drawn as a translucent green disc with a gray outline.
const (
	OverlayFillColor   = "green"
	OverlayStrokeColor = "gray"
	OverlayAlpha       = 0.4
)

type Circle struct {
	Center      Coordinate `json:"center"`
	Radius      float64    `json:"radius"`
	FillColor   string     `json:"fill_color,omitempty"`
	StrokeColor string     `json:"stroke_color,omitempty"`
	Alpha       float64    `json:"alpha,omitempty"`
}

type Annotation struct {
	ID         int        `json:"id"`
	Coordinate Coordinate `json:"coordinate"`
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle,omitempty"`
}

// Place is the result of a reverse geocode lookup.
type Place struct {
	Name     string
	Locality string
}

// Description returns "<name>, <locality>" and false when either is missing.
func (p Place) Description() (string, bool) {
	if p.Name == "" || p.Locality == "" {
		return "", false
	}
	return p.Name + ", " + p.Locality, true
}

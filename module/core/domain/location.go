package domain

import (
	"errors"
	"math"
	"time"
)

const earthRadiusMeters = 6371000

// metersPerDegreeLat is the approximate length of one degree of latitude.
const metersPerDegreeLat = 111320

type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return errors.New("latitude: must be between -90 and 90")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return errors.New("longitude: must be between -180 and 180")
	}
	return nil
}

// DistanceTo returns the great-circle distance in meters.
func (c Coordinate) DistanceTo(o Coordinate) float64 {
	dLat := toRad(o.Lat - c.Lat)
	dLon := toRad(o.Lon - c.Lon)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(c.Lat))*math.Cos(toRad(o.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Fix is a single location update reported by the device.
type Fix struct {
	Coordinate Coordinate `json:"coordinate"`
	Timestamp  time.Time  `json:"timestamp"`
}

type AuthorizationStatus string

const (
	NotDetermined       AuthorizationStatus = "not_determined"
	Restricted          AuthorizationStatus = "restricted"
	Denied              AuthorizationStatus = "denied"
	AuthorizedWhenInUse AuthorizationStatus = "authorized_when_in_use"
	AuthorizedAlways    AuthorizationStatus = "authorized_always"
)

func (s AuthorizationStatus) Valid() bool {
	switch s {
	case NotDetermined, Restricted, Denied, AuthorizedWhenInUse, AuthorizedAlways:
		return true
	}
	return false
}

func (s AuthorizationStatus) Authorized() bool {
	return s == AuthorizedWhenInUse || s == AuthorizedAlways
}

// AppState mirrors the device application state relevant to alerting.
type AppState struct {
	Foreground bool `json:"foreground"`
	Badge      int  `json:"badge"`
}

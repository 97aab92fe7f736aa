package geocoder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

type mockGeocoder struct {
	reverseFn func(ctx context.Context, coord domain.Coordinate) (domain.Place, error)
	calls     int
}

func (m *mockGeocoder) Name() string { return "mock" }

func (m *mockGeocoder) Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	m.calls++
	return m.reverseFn(ctx, coord)
}

func TestCached_Hit(t *testing.T) {
	inner := &mockGeocoder{
		reverseFn: func(_ context.Context, _ domain.Coordinate) (domain.Place, error) {
			return domain.Place{Name: "Oshawa Centre", Locality: "Oshawa"}, nil
		},
	}
	c := NewCached(inner, time.Hour, time.Minute)
	coord := domain.Coordinate{Lat: 43.861433, Lon: -78.836460}

	for i := 0; i < 3; i++ {
		p, err := c.Reverse(context.Background(), coord)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Locality != "Oshawa" {
			t.Errorf("expected Oshawa, got %s", p.Locality)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
	if c.Name() != "cached mock" {
		t.Errorf("unexpected name %s", c.Name())
	}
}

func TestCached_Expiry(t *testing.T) {
	inner := &mockGeocoder{
		reverseFn: func(_ context.Context, _ domain.Coordinate) (domain.Place, error) {
			return domain.Place{Name: "Somewhere"}, nil
		},
	}
	c := NewCached(inner, time.Hour, time.Minute)
	now := time.Unix(1715000000, 0)
	c.now = func() time.Time { return now }

	coord := domain.Coordinate{Lat: 1, Lon: 1}
	_, _ = c.Reverse(context.Background(), coord)
	now = now.Add(30 * time.Second)
	_, _ = c.Reverse(context.Background(), coord)
	if inner.calls != 1 {
		t.Fatalf("expected miss entry to be cached, got %d calls", inner.calls)
	}

	now = now.Add(time.Minute)
	_, _ = c.Reverse(context.Background(), coord)
	if inner.calls != 2 {
		t.Errorf("expected miss entry to expire after miss ttl, got %d calls", inner.calls)
	}
}

func TestCached_ErrorNotCached(t *testing.T) {
	inner := &mockGeocoder{
		reverseFn: func(_ context.Context, _ domain.Coordinate) (domain.Place, error) {
			return domain.Place{}, errors.New("rate limited")
		},
	}
	c := NewCached(inner, time.Hour, time.Minute)
	coord := domain.Coordinate{Lat: 1, Lon: 1}

	if _, err := c.Reverse(context.Background(), coord); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.Reverse(context.Background(), coord); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 2 {
		t.Errorf("expected errors to bypass the cache, got %d calls", inner.calls)
	}
}

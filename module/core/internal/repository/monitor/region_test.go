package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
)

var (
	park    = domain.DefaultRegions()[1]
	outside = domain.Coordinate{Lat: 43.870000, Lon: -78.832683}
)

func fixAt(c domain.Coordinate) domain.Fix {
	return domain.Fix{Coordinate: c, Timestamp: time.Unix(1715003456, 0)}
}

func TestStartMonitoring_Unavailable(t *testing.T) {
	m := NewRegionMonitor(false, logger.Discard())

	err := m.StartMonitoring(park.Region())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(m.MonitoredRegions()) != 0 {
		t.Error("expected no regions")
	}
}

func TestStartMonitoring_Replaces(t *testing.T) {
	m := NewRegionMonitor(true, logger.Discard())
	_ = m.StartMonitoring(park.Region())
	_ = m.StartMonitoring(park.Region())

	if n := len(m.MonitoredRegions()); n != 1 {
		t.Fatalf("expected 1 region, got %d", n)
	}
	if err := m.StartMonitoring(domain.MonitoredRegion{}); err == nil {
		t.Error("expected error for empty identifier")
	}
}

func TestObserve_EntryCrossing(t *testing.T) {
	m := NewRegionMonitor(true, logger.Discard())
	_ = m.StartMonitoring(park.Region())

	var entered []string
	m.SetEntryHandler(func(_ context.Context, id string) { entered = append(entered, id) })

	ctx := context.Background()
	m.Observe(ctx, fixAt(outside))
	m.Observe(ctx, fixAt(park.Center))
	m.Observe(ctx, fixAt(park.Center))

	if len(entered) != 1 || entered[0] != "Park" {
		t.Fatalf("expected a single Park entry, got %v", entered)
	}
}

func TestObserve_InitialContainmentDoesNotFire(t *testing.T) {
	m := NewRegionMonitor(true, logger.Discard())
	_ = m.StartMonitoring(park.Region())

	fired := false
	m.SetEntryHandler(func(context.Context, string) { fired = true })
	m.Observe(context.Background(), fixAt(park.Center))

	if fired {
		t.Error("initial containment must not fire an entry callback")
	}
}

func TestObserve_ExitOnlyWhenRequested(t *testing.T) {
	m := NewRegionMonitor(true, logger.Discard())
	_ = m.StartMonitoring(park.Region())

	exits := 0
	m.SetExitHandler(func(context.Context, string) { exits++ })

	ctx := context.Background()
	m.Observe(ctx, fixAt(park.Center))
	m.Observe(ctx, fixAt(outside))
	if exits != 0 {
		t.Fatalf("exit notifications are disabled for entry-only regions, got %d", exits)
	}

	region := park.Region()
	region.NotifyOnExit = true
	_ = m.StartMonitoring(region)
	m.Observe(ctx, fixAt(park.Center))
	m.Observe(ctx, fixAt(outside))
	if exits != 1 {
		t.Errorf("expected 1 exit, got %d", exits)
	}
}

func TestObserve_BoundaryIsOutside(t *testing.T) {
	edge := domain.Coordinate{Lat: 43.862770, Lon: -78.832683}
	region := domain.MonitoredRegion{
		Identifier:    "Park",
		Center:        park.Center,
		Radius:        edge.DistanceTo(park.Center),
		NotifyOnEntry: true,
	}

	m := NewRegionMonitor(true, logger.Discard())
	_ = m.StartMonitoring(region)

	fired := false
	m.SetEntryHandler(func(context.Context, string) { fired = true })
	m.Observe(context.Background(), fixAt(outside))
	m.Observe(context.Background(), fixAt(edge))

	if fired {
		t.Error("a fix exactly on the boundary must not count as an entry")
	}
}

func TestStartMonitoring_StateFromLastFix(t *testing.T) {
	tests := []struct {
		name      string
		before    domain.Coordinate
		wantEntry bool
	}{
		{"outside before registration", outside, true},
		{"inside before registration", park.Center, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewRegionMonitor(true, logger.Discard())
			var entered []string
			m.SetEntryHandler(func(_ context.Context, id string) { entered = append(entered, id) })

			ctx := context.Background()
			m.Observe(ctx, fixAt(tt.before))
			_ = m.StartMonitoring(park.Region())
			m.Observe(ctx, fixAt(park.Center))

			if got := len(entered) == 1; got != tt.wantEntry {
				t.Errorf("expected entry %v, got %v", tt.wantEntry, entered)
			}
		})
	}
}

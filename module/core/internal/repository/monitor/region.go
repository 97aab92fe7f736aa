package monitor

import (
	"context"
	"errors"
	"sync"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
)

var ErrUnavailable = errors.New("region monitoring unavailable")

// Handler receives the identifier of the region that was crossed.
type Handler func(ctx context.Context, identifier string)

type regionState struct {
	region      domain.MonitoredRegion
	inside      bool
	initialized bool
}

// RegionMonitor detects boundary crossings of monitored circular regions
// from a stream of fixes. Initial containment never fires a callback; only
// a transition observed between two fixes does.
type RegionMonitor struct {
	available bool
	logger    *logger.Logger

	mu      sync.Mutex
	regions map[string]*regionState
	order   []string
	lastFix *domain.Fix
	onEntry Handler
	onExit  Handler
}

func NewRegionMonitor(available bool, log *logger.Logger) *RegionMonitor {
	return &RegionMonitor{
		available: available,
		logger:    log,
		regions:   make(map[string]*regionState),
	}
}

func (m *RegionMonitor) Available() bool {
	return m.available
}

// StartMonitoring replaces any region already registered under the same
// identifier. Its initial state comes from the last observed fix, so the
// next fix is compared against it rather than only initialising it.
func (m *RegionMonitor) StartMonitoring(region domain.MonitoredRegion) error {
	if !m.available {
		return ErrUnavailable
	}
	if region.Identifier == "" {
		return errors.New("region identifier required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.regions[region.Identifier]; !ok {
		m.order = append(m.order, region.Identifier)
	}
	st := &regionState{region: region}
	if m.lastFix != nil {
		st.inside = contains(region, *m.lastFix)
		st.initialized = true
	}
	m.regions[region.Identifier] = st
	return nil
}

func (m *RegionMonitor) MonitoredRegions() []domain.MonitoredRegion {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MonitoredRegion, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.regions[id].region)
	}
	return out
}

func (m *RegionMonitor) SetEntryHandler(h Handler) {
	m.mu.Lock()
	m.onEntry = h
	m.mu.Unlock()
}

func (m *RegionMonitor) SetExitHandler(h Handler) {
	m.mu.Lock()
	m.onExit = h
	m.mu.Unlock()
}

// Observe feeds a fix into the monitor. Handlers run after the lock is
// released, in registration order.
func (m *RegionMonitor) Observe(ctx context.Context, fix domain.Fix) {
	type event struct {
		h  Handler
		id string
	}
	var events []event

	m.mu.Lock()
	m.lastFix = &fix
	for _, id := range m.order {
		st := m.regions[id]
		inside := contains(st.region, fix)
		if !st.initialized {
			st.initialized = true
			st.inside = inside
			continue
		}
		switch {
		case inside && !st.inside && st.region.NotifyOnEntry && m.onEntry != nil:
			events = append(events, event{m.onEntry, id})
		case !inside && st.inside && st.region.NotifyOnExit && m.onExit != nil:
			events = append(events, event{m.onExit, id})
		}
		st.inside = inside
	}
	m.mu.Unlock()

	for _, e := range events {
		m.logger.Debug("region boundary crossed", "region", e.id)
		e.h(ctx, e.id)
	}
}

func contains(region domain.MonitoredRegion, fix domain.Fix) bool {
	return fix.Coordinate.DistanceTo(region.Center) < region.Radius
}

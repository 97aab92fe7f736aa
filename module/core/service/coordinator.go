package service

import (
	"context"
	"sync"
	"time"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/database"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/geocoder"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/publisher"
)

type RegionMonitor interface {
	Available() bool
	StartMonitoring(region domain.MonitoredRegion) error
}

type MapSurface interface {
	SetShowsUserLocation(show bool)
	AddOverlay(c domain.Circle)
	AddAnnotation(a domain.Annotation) int
	SetAnnotationSubtitle(id int, subtitle string) error
	Viewport() domain.Viewport
	SetViewport(v domain.Viewport)
}

type NotificationScheduler interface {
	Schedule(ctx context.Context, n domain.Notification) error
}

type AppStateProvider interface {
	AppState() domain.AppState
}

// RegionCoordinator owns the geofence definitions and decides how an entry
// reaches the user.
type RegionCoordinator struct {
	definitions []domain.GeofenceDefinition
	presenter   publisher.DialogPresenter
	scheduler   NotificationScheduler
	geocoder    geocoder.Geocoder
	appState    AppStateProvider
	entries     database.EntryRepository
	logger      *logger.Logger
	now         func() time.Time

	lookups sync.WaitGroup

	mu       sync.Mutex
	recenter bool
	span     domain.Span
}

// NewRegionCoordinator accepts a nil entries repository, in which case
// entries are not journaled.
func NewRegionCoordinator(
	definitions []domain.GeofenceDefinition,
	presenter publisher.DialogPresenter,
	scheduler NotificationScheduler,
	gc geocoder.Geocoder,
	appState AppStateProvider,
	entries database.EntryRepository,
	log *logger.Logger,
) *RegionCoordinator {
	return &RegionCoordinator{
		definitions: definitions,
		presenter:   presenter,
		scheduler:   scheduler,
		geocoder:    gc,
		appState:    appState,
		entries:     entries,
		logger:      log,
		now:         time.Now,
		span:        domain.DefaultSpan,
	}
}

func (c *RegionCoordinator) Definitions() []domain.GeofenceDefinition {
	out := make([]domain.GeofenceDefinition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// Register asks the monitor to watch every definition and returns the names
// that were actually registered. Unavailable monitoring is not an error.
func (c *RegionCoordinator) Register(ctx context.Context, defs []domain.GeofenceDefinition, monitor RegionMonitor) []domain.RegionName {
	var registered []domain.RegionName
	for _, def := range defs {
		if !monitor.Available() {
			c.logger.DebugContext(ctx, "region monitoring unavailable, skipping", "region", def.Name)
			continue
		}
		if err := monitor.StartMonitoring(def.Region()); err != nil {
			c.logger.WarnContext(ctx, "failed to start monitoring", "region", def.Name, logger.Err(err))
			continue
		}
		registered = append(registered, def.Name)
	}
	return registered
}

// RenderOverlay draws the fence and its pin. The pin subtitle is filled in
// by a background reverse geocode that is never retried or cancelled.
func (c *RegionCoordinator) RenderOverlay(ctx context.Context, def domain.GeofenceDefinition, surface MapSurface) {
	surface.AddOverlay(def.Overlay())
	id := surface.AddAnnotation(domain.Annotation{Coordinate: def.Center, Title: string(def.Name)})

	lookupCtx := context.WithoutCancel(ctx)
	c.lookups.Go(func() {
		place, err := c.geocoder.Reverse(lookupCtx, def.Center)
		if err != nil {
			c.logger.Error("reverse geocode failed", "region", def.Name, "geocoder", c.geocoder.Name(), logger.Err(err))
			return
		}
		desc, ok := place.Description()
		if !ok {
			c.logger.Debug("reverse geocode returned no name or locality", "region", def.Name)
			return
		}
		if err := surface.SetAnnotationSubtitle(id, desc); err != nil {
			c.logger.Error("failed to set annotation subtitle", "region", def.Name, logger.Err(err))
		}
	})
}

// Wait blocks until all in-flight geocode lookups have finished.
func (c *RegionCoordinator) Wait() {
	c.lookups.Wait()
}

// OnEntry handles a boundary crossing reported by the monitor. Unknown
// identifiers are rejected without alerting.
func (c *RegionCoordinator) OnEntry(ctx context.Context, identifier string) error {
	name, err := domain.ParseRegionName(identifier)
	if err != nil {
		c.logger.WarnContext(ctx, "entry for unknown region ignored", "identifier", identifier)
		return err
	}
	return c.enter(ctx, name, domain.EntryBoundary)
}

// CheckProximity fires the entry path for every fence that strictly
// contains the fix.
func (c *RegionCoordinator) CheckProximity(ctx context.Context, fix domain.Fix) []domain.RegionName {
	var entered []domain.RegionName
	for _, def := range c.definitions {
		if !def.Contains(fix.Coordinate) {
			continue
		}
		if err := c.enter(ctx, def.Name, domain.EntryProximity); err != nil {
			c.logger.WarnContext(ctx, "proximity entry failed", "region", def.Name, logger.Err(err))
			continue
		}
		entered = append(entered, def.Name)
	}
	return entered
}

// enter always presents the dialog; the notification is only scheduled
// when the app is not in the foreground.
func (c *RegionCoordinator) enter(ctx context.Context, name domain.RegionName, source domain.EntrySource) error {
	msg, err := name.WelcomeMessage()
	if err != nil {
		return err
	}
	state := c.appState.AppState()

	if err := c.presenter.Present(ctx, domain.WelcomeDialog(msg)); err != nil {
		c.logger.ErrorContext(ctx, "failed to present dialog", "region", name, logger.Err(err))
	}

	scheduled := false
	if !state.Foreground {
		if err := c.scheduler.Schedule(ctx, domain.WelcomeNotification(msg, state.Badge)); err != nil {
			c.logger.ErrorContext(ctx, "failed to schedule notification", "region", name, logger.Err(err))
		} else {
			scheduled = true
		}
	}

	c.logger.InfoContext(ctx, "region entered", "region", name, "source", source, "foreground", state.Foreground)

	if c.entries != nil {
		entry := &domain.RegionEntry{
			Region:                name,
			Message:               msg,
			Source:                source,
			Foreground:            state.Foreground,
			NotificationScheduled: scheduled,
			OccurredAt:            c.now(),
		}
		if err := c.entries.Insert(ctx, entry); err != nil {
			c.logger.ErrorContext(ctx, "failed to journal entry", "region", name, logger.Err(err))
		}
	}
	return nil
}

func (c *RegionCoordinator) ToggleRecenter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recenter = !c.recenter
	return c.recenter
}

func (c *RegionCoordinator) Recentering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recenter
}

// OnLocationUpdate remembers the span the map is currently showing and,
// while recentering, moves the map onto the fix with that span.
func (c *RegionCoordinator) OnLocationUpdate(ctx context.Context, fix domain.Fix, surface MapSurface) bool {
	c.mu.Lock()
	c.span = surface.Viewport().Span
	recenter, span := c.recenter, c.span
	c.mu.Unlock()

	if !recenter {
		return false
	}
	surface.SetViewport(domain.Viewport{Center: fix.Coordinate, Span: span})
	c.logger.DebugContext(ctx, "map recentered", "lat", fix.Coordinate.Lat, "lon", fix.Coordinate.Lon)
	return true
}

// CenterOn moves the map onto the fix using the default span.
func (c *RegionCoordinator) CenterOn(fix domain.Fix, surface MapSurface) {
	surface.SetViewport(domain.Viewport{Center: fix.Coordinate, Span: domain.DefaultSpan})
}

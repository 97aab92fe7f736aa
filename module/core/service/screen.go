package service

import (
	"context"
	"sync"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/publisher"
)

const (
	RecenterOnLabel  = "Undo user location in center"
	RecenterOffLabel = "Keep user location in center"

	// initialZoomMeters is the size of the region shown around the first fix.
	initialZoomMeters = 400
)

// ScreenController drives the authorization flow and wires the coordinator
// to the device's location callbacks.
type ScreenController struct {
	session     *Session
	coordinator *RegionCoordinator
	monitor     RegionMonitor
	surface     MapSurface
	commands    publisher.CommandPublisher
	presenter   publisher.DialogPresenter
	logger      *logger.Logger

	mu                     sync.Mutex
	notificationsRequested bool
	configured             bool
	proximityPending       bool
}

func NewScreenController(
	session *Session,
	coordinator *RegionCoordinator,
	monitor RegionMonitor,
	surface MapSurface,
	commands publisher.CommandPublisher,
	presenter publisher.DialogPresenter,
	log *logger.Logger,
) *ScreenController {
	return &ScreenController{
		session:     session,
		coordinator: coordinator,
		monitor:     monitor,
		surface:     surface,
		commands:    commands,
		presenter:   presenter,
		logger:      log,
	}
}

// Appear is called every time the map screen becomes visible.
func (s *ScreenController) Appear(ctx context.Context) {
	s.Evaluate(ctx)
}

// ChangeAuthorization records a status reported by the device and
// re-evaluates the flow.
func (s *ScreenController) ChangeAuthorization(ctx context.Context, status domain.AuthorizationStatus, servicesEnabled bool) {
	s.session.SetAuthorization(status, servicesEnabled)
	s.Evaluate(ctx)
}

func (s *ScreenController) Evaluate(ctx context.Context) {
	s.requestNotifications(ctx)

	status, enabled := s.session.Authorization()
	if !enabled {
		s.logger.DebugContext(ctx, "location services disabled")
		return
	}

	switch status {
	case domain.NotDetermined:
		s.send(ctx, domain.DeviceCommand{Action: domain.RequestWhenInUse})
	case domain.Denied, domain.Restricted:
		if err := s.presenter.Present(ctx, domain.LocationAccessDialog()); err != nil {
			s.logger.ErrorContext(ctx, "failed to present location access dialog", logger.Err(err))
		}
	case domain.AuthorizedWhenInUse, domain.AuthorizedAlways:
		s.configure(ctx)
	default:
		s.logger.WarnContext(ctx, "unknown authorization status", "status", status)
	}
}

// requestNotifications runs once per controller, independent of the
// location authorization state.
func (s *ScreenController) requestNotifications(ctx context.Context) {
	s.mu.Lock()
	if s.notificationsRequested {
		s.mu.Unlock()
		return
	}
	s.notificationsRequested = true
	s.mu.Unlock()

	s.send(ctx, domain.NotificationAuthorizationCommand())
}

// Configured reports whether the map and regions have been set up.
func (s *ScreenController) Configured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configured
}

// configure runs once per controller. Later authorized evaluations find the
// map, overlays and monitored regions already in place.
func (s *ScreenController) configure(ctx context.Context) {
	s.mu.Lock()
	if s.configured {
		s.mu.Unlock()
		return
	}
	s.configured = true
	s.proximityPending = true
	s.mu.Unlock()

	s.surface.SetShowsUserLocation(true)
	s.send(ctx, domain.DeviceCommand{Action: domain.ShowUserLocation})
	s.send(ctx, domain.DeviceCommand{Action: domain.RequestAlways})
	s.send(ctx, domain.DeviceCommand{
		Action:              domain.StartLocationUpdates,
		Accuracy:            "best_for_navigation",
		AllowsBackground:    true,
		PausesAutomatically: false,
		SignificantChanges:  true,
	})

	defs := s.coordinator.Definitions()
	registered := s.coordinator.Register(ctx, defs, s.monitor)
	for _, def := range defs {
		s.coordinator.RenderOverlay(ctx, def, s.surface)
	}
	s.logger.InfoContext(ctx, "map configured", "regions", len(defs), "monitored", len(registered))

	if fix, ok := s.session.LastFix(); ok {
		s.surface.SetViewport(domain.Viewport{
			Center: fix.Coordinate,
			Span:   domain.SpanForDistance(fix.Coordinate, initialZoomMeters, initialZoomMeters),
		})
		s.checkProximity(ctx, fix)
	}
}

// checkProximity runs at most once after configuration, on the first fix
// available.
func (s *ScreenController) checkProximity(ctx context.Context, fix domain.Fix) {
	s.mu.Lock()
	if !s.proximityPending {
		s.mu.Unlock()
		return
	}
	s.proximityPending = false
	s.mu.Unlock()

	if entered := s.coordinator.CheckProximity(ctx, fix); len(entered) > 0 {
		s.logger.InfoContext(ctx, "already inside regions at launch", "regions", entered)
	}
}

func (s *ScreenController) OnLocationUpdate(ctx context.Context, fix domain.Fix) {
	s.session.SetFix(fix)
	if !s.Configured() {
		return
	}
	s.checkProximity(ctx, fix)
	s.coordinator.OnLocationUpdate(ctx, fix, s.surface)
}

// RegionEntered forwards a boundary crossing from the location service.
func (s *ScreenController) RegionEntered(ctx context.Context, identifier string) {
	if err := s.coordinator.OnEntry(ctx, identifier); err != nil {
		s.logger.ErrorContext(ctx, "region entry not handled", "identifier", identifier, logger.Err(err))
	}
}

func (s *ScreenController) SetAppState(state domain.AppState) {
	s.session.SetAppState(state)
}

// ToggleRecenter flips the follow-location toggle, centers the map on the
// last fix and returns the new state with the matching button label.
func (s *ScreenController) ToggleRecenter(ctx context.Context) (bool, string) {
	on := s.coordinator.ToggleRecenter()
	if fix, ok := s.session.LastFix(); ok {
		s.coordinator.CenterOn(fix, s.surface)
	}
	s.logger.DebugContext(ctx, "recenter toggled", "enabled", on)
	return on, RecenterLabel(on)
}

func RecenterLabel(on bool) string {
	if on {
		return RecenterOnLabel
	}
	return RecenterOffLabel
}

func (s *ScreenController) send(ctx context.Context, cmd domain.DeviceCommand) {
	if err := s.commands.SendCommand(ctx, cmd); err != nil {
		s.logger.ErrorContext(ctx, "failed to send device command", "action", cmd.Action, logger.Err(err))
	}
}

package service

import (
	"sync"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

// Session holds what the device last reported. Callbacks arrive from the
// MQTT client and HTTP handlers concurrently, so every field is guarded.
type Session struct {
	mu              sync.RWMutex
	servicesEnabled bool
	status          domain.AuthorizationStatus
	fix             domain.Fix
	hasFix          bool
	app             domain.AppState
}

// NewSession starts with services enabled, authorization undetermined and
// the app in the foreground, which is the state right after launch.
func NewSession() *Session {
	return &Session{
		servicesEnabled: true,
		status:          domain.NotDetermined,
		app:             domain.AppState{Foreground: true},
	}
}

func (s *Session) SetAuthorization(status domain.AuthorizationStatus, servicesEnabled bool) {
	s.mu.Lock()
	s.status = status
	s.servicesEnabled = servicesEnabled
	s.mu.Unlock()
}

func (s *Session) Authorization() (domain.AuthorizationStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.servicesEnabled
}

func (s *Session) SetFix(fix domain.Fix) {
	s.mu.Lock()
	s.fix = fix
	s.hasFix = true
	s.mu.Unlock()
}

func (s *Session) LastFix() (domain.Fix, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix, s.hasFix
}

func (s *Session) SetAppState(state domain.AppState) {
	s.mu.Lock()
	s.app = state
	s.mu.Unlock()
}

func (s *Session) AppState() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.app
}

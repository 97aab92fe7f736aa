package service

import (
	"context"
	"sync"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

type mockPresenter struct {
	mu      sync.Mutex
	dialogs []domain.Dialog
	err     error
}

func (m *mockPresenter) Present(_ context.Context, d domain.Dialog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogs = append(m.dialogs, d)
	return m.err
}

func (m *mockPresenter) presented() []domain.Dialog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Dialog(nil), m.dialogs...)
}

type mockScheduler struct {
	calls []domain.Notification
	err   error
}

func (m *mockScheduler) Schedule(_ context.Context, n domain.Notification) error {
	m.calls = append(m.calls, n)
	return m.err
}

type mockGeocoder struct {
	reverseFn func(ctx context.Context, coord domain.Coordinate) (domain.Place, error)
}

func (m *mockGeocoder) Name() string { return "mock" }

func (m *mockGeocoder) Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	return m.reverseFn(ctx, coord)
}

type mockAppState struct {
	state domain.AppState
}

func (m *mockAppState) AppState() domain.AppState { return m.state }

type mockEntries struct {
	inserted []domain.RegionEntry
	err      error
}

func (m *mockEntries) Insert(_ context.Context, e *domain.RegionEntry) error {
	m.inserted = append(m.inserted, *e)
	return m.err
}

func (m *mockEntries) List(_ context.Context, _ int) ([]domain.RegionEntry, error) {
	return m.inserted, m.err
}

type mockMonitor struct {
	available bool
	started   []domain.MonitoredRegion
	err       error
}

func (m *mockMonitor) Available() bool { return m.available }

func (m *mockMonitor) StartMonitoring(r domain.MonitoredRegion) error {
	if m.err != nil {
		return m.err
	}
	m.started = append(m.started, r)
	return nil
}

type mockCommands struct {
	cmds []domain.DeviceCommand
	err  error
}

func (m *mockCommands) SendCommand(_ context.Context, cmd domain.DeviceCommand) error {
	m.cmds = append(m.cmds, cmd)
	return m.err
}

func (m *mockCommands) actions() []domain.CommandAction {
	out := make([]domain.CommandAction, len(m.cmds))
	for i, c := range m.cmds {
		out[i] = c.Action
	}
	return out
}

func okGeocoder() *mockGeocoder {
	return &mockGeocoder{
		reverseFn: func(_ context.Context, _ domain.Coordinate) (domain.Place, error) {
			return domain.Place{Name: "Rotary Park", Locality: "Oshawa"}, nil
		},
	}
}

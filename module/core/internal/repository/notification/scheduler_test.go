package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
)

type mockPublisher struct {
	mu    sync.Mutex
	calls []domain.Notification
	err   error
}

func (m *mockPublisher) PublishNotification(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, *n)
	return m.err
}

func (m *mockPublisher) published() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.calls...)
}

func newTestScheduler(t *testing.T, pub *mockPublisher) *Scheduler {
	t.Helper()
	s, err := NewScheduler(pub, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSchedule_DeliversAfterDelay(t *testing.T) {
	pub := &mockPublisher{}
	s := newTestScheduler(t, pub)

	n := domain.WelcomeNotification("We welcome to school", 0)
	n.Delay = 100 * time.Millisecond
	if err := s.Schedule(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published()) != 0 {
		t.Fatal("notification delivered before its delay")
	}
	waitFor(t, func() bool { return len(pub.published()) == 1 })

	if got := pub.published()[0]; got.Body != "We welcome to school" || got.Badge != 1 {
		t.Errorf("unexpected notification %+v", got)
	}
}

func TestSchedule_SameIdentifierReplacesPending(t *testing.T) {
	pub := &mockPublisher{}
	s := newTestScheduler(t, pub)

	first := domain.WelcomeNotification("We welcome to school", 0)
	first.Delay = 300 * time.Millisecond
	second := domain.WelcomeNotification("We welcome to park", 1)
	second.Delay = 300 * time.Millisecond

	ctx := context.Background()
	if err := s.Schedule(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule(ctx, second); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return len(pub.published()) >= 1 })
	time.Sleep(400 * time.Millisecond)

	got := pub.published()
	if len(got) != 1 {
		t.Fatalf("expected the second notification to replace the first, got %d deliveries", len(got))
	}
	if got[0].Body != "We welcome to park" {
		t.Errorf("expected park message, got %q", got[0].Body)
	}
}

func TestSchedule_PublishErrorIsSwallowed(t *testing.T) {
	pub := &mockPublisher{err: errors.New("channel closed")}
	s := newTestScheduler(t, pub)

	n := domain.WelcomeNotification("We welcome to park", 0)
	n.Delay = 50 * time.Millisecond
	if err := s.Schedule(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitFor(t, func() bool { return len(pub.published()) == 1 })
}

func TestSchedule_RejectsRepeating(t *testing.T) {
	s := newTestScheduler(t, &mockPublisher{})

	n := domain.WelcomeNotification("We welcome to park", 0)
	n.Repeats = true
	if err := s.Schedule(context.Background(), n); err == nil {
		t.Fatal("expected error")
	}
}

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/publisher"
)

// Scheduler delivers local notifications after their delay. A notification
// scheduled with the identifier of one still pending replaces it.
type Scheduler struct {
	scheduler gocron.Scheduler
	publisher publisher.NotificationPublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewScheduler(pub publisher.NotificationPublisher, log *logger.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, publisher: pub, logger: log, now: time.Now}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// Schedule never blocks on delivery. ctx is detached from cancellation so
// a pending notification survives the request that created it.
func (s *Scheduler) Schedule(ctx context.Context, n domain.Notification) error {
	if n.Repeats {
		return fmt.Errorf("notification %q: repeating notifications are not supported", n.Identifier)
	}

	s.scheduler.RemoveByTags(n.Identifier)

	deliverCtx := context.WithoutCancel(ctx)
	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(s.now().Add(n.Delay))),
		gocron.NewTask(func() { s.deliver(deliverCtx, n) }),
		gocron.WithTags(n.Identifier),
		gocron.WithName("notification_"+n.Identifier),
	)
	if err != nil {
		return fmt.Errorf("schedule notification %q: %w", n.Identifier, err)
	}
	return nil
}

func (s *Scheduler) deliver(ctx context.Context, n domain.Notification) {
	if err := s.publisher.PublishNotification(ctx, &n); err != nil {
		s.logger.Error("failed to deliver notification", "identifier", n.Identifier, logger.Err(err))
		return
	}
	s.logger.Debug("notification delivered", "identifier", n.Identifier, "badge", n.Badge)
}

package publisher

import (
	"context"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

type DialogPresenter interface {
	Present(ctx context.Context, dialog domain.Dialog) error
}

type CommandPublisher interface {
	SendCommand(ctx context.Context, cmd domain.DeviceCommand) error
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n *domain.Notification) error
}

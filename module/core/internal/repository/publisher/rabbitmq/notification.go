package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/publisher"
)

var _ publisher.NotificationPublisher = (*NotificationPublisher)(nil)

const (
	ExchangeName = "regionmonitor.notifications"
	QueueName    = "local_notifications"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type NotificationPublisher struct {
	ch       amqpChannel
	deviceID string
}

func NewNotificationPublisher(conn *amqp.Connection, deviceID string) (*NotificationPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := Declare(ch); err != nil {
		return nil, err
	}

	return &NotificationPublisher{ch: ch, deviceID: deviceID}, nil
}

// Declare sets up the fanout exchange and the bound notification queue.
func Declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// NotificationMessage is the wire format consumed by the device push bridge.
type NotificationMessage struct {
	DeviceID   string `json:"device_id"`
	Identifier string `json:"identifier"`
	Body       string `json:"body"`
	Sound      string `json:"sound"`
	Badge      int    `json:"badge"`
	Repeats    bool   `json:"repeats"`
}

func (p *NotificationPublisher) PublishNotification(ctx context.Context, n *domain.Notification) error {
	msg := NotificationMessage{
		DeviceID:   p.deviceID,
		Identifier: n.Identifier,
		Body:       n.Body,
		Sound:      n.Sound,
		Badge:      n.Badge,
		Repeats:    n.Repeats,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   n.Identifier,
		Body:        body,
	})
}

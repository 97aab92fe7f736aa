package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

type fakeChannel struct {
	exchange string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.msg = msg
	return f.err
}

func TestPublishNotification_Success(t *testing.T) {
	ch := &fakeChannel{}
	pub := &NotificationPublisher{ch: ch, deviceID: "iphone"}

	n := domain.WelcomeNotification("We welcome to school", 0)
	if err := pub.PublishNotification(context.Background(), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ch.exchange != ExchangeName {
		t.Errorf("expected exchange %s, got %s", ExchangeName, ch.exchange)
	}
	if ch.msg.ContentType != "application/json" {
		t.Errorf("expected application/json, got %s", ch.msg.ContentType)
	}
	if ch.msg.MessageId != "locationUpdate" {
		t.Errorf("expected message id locationUpdate, got %s", ch.msg.MessageId)
	}

	var got NotificationMessage
	if err := json.Unmarshal(ch.msg.Body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.DeviceID != "iphone" || got.Body != "We welcome to school" || got.Badge != 1 || got.Sound != "default" {
		t.Errorf("unexpected message %+v", got)
	}
}

func TestPublishNotification_ChannelError(t *testing.T) {
	pub := &NotificationPublisher{ch: &fakeChannel{err: errors.New("channel closed")}}

	n := domain.WelcomeNotification("We welcome to park", 0)
	if err := pub.PublishNotification(context.Background(), &n); err == nil {
		t.Fatal("expected error")
	}
}

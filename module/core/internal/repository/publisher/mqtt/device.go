package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/publisher"
)

var (
	_ publisher.DialogPresenter  = (*DevicePublisher)(nil)
	_ publisher.CommandPublisher = (*DevicePublisher)(nil)
)

const (
	DialogTopicFormat  = "/regionmonitor/device/%s/dialog"
	CommandTopicFormat = "/regionmonitor/device/%s/command"
	qos                = 1

	// AckTimeout bounds how long a delivery is tracked before it is logged
	// as unacknowledged.
	AckTimeout = 10 * time.Second
)

// DevicePublisher presents dialogs on and sends commands to a single device.
// Publishing never waits for the broker acknowledgement; delivery failures
// are logged.
type DevicePublisher struct {
	client     pahomqtt.Client
	deviceID   string
	logger     *logger.Logger
	ackTimeout time.Duration

	acks sync.WaitGroup
}

func NewDevicePublisher(client pahomqtt.Client, deviceID string, log *logger.Logger) *DevicePublisher {
	return &DevicePublisher{client: client, deviceID: deviceID, logger: log, ackTimeout: AckTimeout}
}

func (p *DevicePublisher) Present(ctx context.Context, dialog domain.Dialog) error {
	return p.publish(ctx, fmt.Sprintf(DialogTopicFormat, p.deviceID), dialog)
}

func (p *DevicePublisher) SendCommand(ctx context.Context, cmd domain.DeviceCommand) error {
	return p.publish(ctx, fmt.Sprintf(CommandTopicFormat, p.deviceID), cmd)
}

// Wait blocks until every tracked delivery was acknowledged, failed or
// timed out.
func (p *DevicePublisher) Wait() {
	p.acks.Wait()
}

func (p *DevicePublisher) publish(ctx context.Context, topic string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}

	token := p.client.Publish(topic, qos, false, payload)
	p.acks.Go(func() {
		timer := time.NewTimer(p.ackTimeout)
		defer timer.Stop()
		select {
		case <-token.Done():
		case <-timer.C:
			p.logger.Warn("publish not acknowledged", "topic", topic, "timeout", p.ackTimeout)
			return
		}
		if err := token.Error(); err != nil {
			p.logger.Error("publish failed", "topic", topic, logger.Err(err))
		}
	})
	return nil
}

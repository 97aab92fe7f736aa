package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
)

const (
	LocationTopicFormat      = "/regionmonitor/device/%s/location"
	AuthorizationTopicFormat = "/regionmonitor/device/%s/authorization"
	StateTopicFormat         = "/regionmonitor/device/%s/state"
	ScreenTopicFormat        = "/regionmonitor/device/%s/screen"

	screenAppear = "appear"
)

type screenController interface {
	Appear(ctx context.Context)
	ChangeAuthorization(ctx context.Context, status domain.AuthorizationStatus, servicesEnabled bool)
	OnLocationUpdate(ctx context.Context, fix domain.Fix)
	SetAppState(state domain.AppState)
}

type locationObserver interface {
	Observe(ctx context.Context, fix domain.Fix)
}

type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type authorizationMessage struct {
	Status          domain.AuthorizationStatus `json:"status"`
	ServicesEnabled *bool                      `json:"services_enabled"`
}

type stateMessage struct {
	Foreground bool `json:"foreground"`
	Badge      int  `json:"badge"`
}

type screenMessage struct {
	Event string `json:"event"`
}

// DeviceSubscriber turns MQTT messages from one device into screen
// controller and region monitor callbacks.
type DeviceSubscriber struct {
	client   mqtt.Client
	deviceID string
	screen   screenController
	monitor  locationObserver
	logger   *logger.Logger
}

func NewDeviceSubscriber(client mqtt.Client, deviceID string, screen screenController, monitor locationObserver, log *logger.Logger) *DeviceSubscriber {
	return &DeviceSubscriber{
		client:   client,
		deviceID: deviceID,
		screen:   screen,
		monitor:  monitor,
		logger:   log,
	}
}

func (s *DeviceSubscriber) Start() error {
	routes := map[string]mqtt.MessageHandler{
		fmt.Sprintf(LocationTopicFormat, s.deviceID):      s.handleLocation,
		fmt.Sprintf(AuthorizationTopicFormat, s.deviceID): s.handleAuthorization,
		fmt.Sprintf(StateTopicFormat, s.deviceID):         s.handleState,
		fmt.Sprintf(ScreenTopicFormat, s.deviceID):        s.handleScreen,
	}
	for topic, handler := range routes {
		token := s.client.Subscribe(topic, 1, handler)
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		s.logger.Info("subscribed", "topic", topic)
	}
	return nil
}

func (s *DeviceSubscriber) handleLocation(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid location message", logger.Err(err))
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		s.logger.Warn("location validation error", logger.Err(err))
		return
	}

	fix := domain.Fix{
		Coordinate: domain.Coordinate{Lat: raw.Latitude, Lon: raw.Longitude},
		Timestamp:  time.Unix(raw.Timestamp, 0),
	}

	ctx := context.Background()
	s.screen.OnLocationUpdate(ctx, fix)
	s.monitor.Observe(ctx, fix)
}

func (s *DeviceSubscriber) handleAuthorization(_ mqtt.Client, msg mqtt.Message) {
	var raw authorizationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid authorization message", logger.Err(err))
		return
	}
	if !raw.Status.Valid() {
		s.logger.Warn("authorization validation error", "status", raw.Status)
		return
	}

	enabled := true
	if raw.ServicesEnabled != nil {
		enabled = *raw.ServicesEnabled
	}
	s.screen.ChangeAuthorization(context.Background(), raw.Status, enabled)
}

func (s *DeviceSubscriber) handleState(_ mqtt.Client, msg mqtt.Message) {
	var raw stateMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid state message", logger.Err(err))
		return
	}
	if raw.Badge < 0 {
		s.logger.Warn("state validation error", "badge", raw.Badge)
		return
	}
	s.screen.SetAppState(domain.AppState{Foreground: raw.Foreground, Badge: raw.Badge})
}

func (s *DeviceSubscriber) handleScreen(_ mqtt.Client, msg mqtt.Message) {
	var raw screenMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid screen message", logger.Err(err))
		return
	}
	if raw.Event != screenAppear {
		s.logger.Debug("ignoring screen event", "event", raw.Event)
		return
	}
	s.screen.Appear(context.Background())
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return errors.New("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return errors.New("longitude: must be between -180 and 180")
	}
	if msg.Timestamp <= 0 {
		return errors.New("timestamp: must be positive")
	}
	return nil
}

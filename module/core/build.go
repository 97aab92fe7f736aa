package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/text/language"

	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
	handler "github.com/gss09/RegionMonitor/module/core/internal/handler/http"
	"github.com/gss09/RegionMonitor/module/core/internal/handler/subscriber"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/database"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/database/postgres"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/geocoder"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/geocoder/nominatim"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/mapview"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/monitor"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/notification"
	devicepub "github.com/gss09/RegionMonitor/module/core/internal/repository/publisher/mqtt"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/publisher/rabbitmq"
	"github.com/gss09/RegionMonitor/module/core/service"
)

const (
	NotificationExchange = rabbitmq.ExchangeName
	NotificationQueue    = rabbitmq.QueueName
)

type GeocoderOptions struct {
	Language language.Tag
	HitTTL   time.Duration
	MissTTL  time.Duration
}

type Options struct {
	DeviceID            string
	MonitoringAvailable bool
	Geocoder            GeocoderOptions
	Logger              *logger.Logger
}

// Migrate creates the entry journal schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	return postgres.Migrate(ctx, db)
}

// DeclareNotifications declares the exchange and queue local notifications
// are delivered through.
func DeclareNotifications(ch *amqp.Channel) error {
	return rabbitmq.Declare(ch)
}

type Module struct {
	Coordinator *service.RegionCoordinator
	Screen      *service.ScreenController
	Monitor     *monitor.RegionMonitor
	Map         *mapview.Store

	scheduler  *notification.Scheduler
	device     *devicepub.DevicePublisher
	handler    *handler.MapHandler
	subscriber *subscriber.DeviceSubscriber
}

// Build wires the region monitoring module. db may be nil, which disables
// the entry journal.
func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options) (*Module, error) {
	defs := domain.DefaultRegions()
	if err := domain.ValidateDefinitions(defs); err != nil {
		return nil, fmt.Errorf("region definitions: %w", err)
	}

	var entries database.EntryRepository
	if db != nil {
		entries = postgres.NewEntryRepo(db)
	}

	notificationPub, err := rabbitmq.NewNotificationPublisher(amqpConn, opts.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("notification publisher: %w", err)
	}

	scheduler, err := notification.NewScheduler(notificationPub, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("notification scheduler: %w", err)
	}

	device := devicepub.NewDevicePublisher(mqttClient, opts.DeviceID, opts.Logger)
	session := service.NewSession()
	store := mapview.NewStore()
	regionMonitor := monitor.NewRegionMonitor(opts.MonitoringAvailable, opts.Logger)

	gc := geocoder.NewCached(
		nominatim.New(opts.Geocoder.Language, opts.Logger),
		opts.Geocoder.HitTTL,
		opts.Geocoder.MissTTL,
	)

	coordinator := service.NewRegionCoordinator(defs, device, scheduler, gc, session, entries, opts.Logger)
	screen := service.NewScreenController(session, coordinator, regionMonitor, store, device, device, opts.Logger)
	regionMonitor.SetEntryHandler(screen.RegionEntered)

	h := handler.NewMapHandler(coordinator, screen, store, entries)
	sub := subscriber.NewDeviceSubscriber(mqttClient, opts.DeviceID, screen, regionMonitor, opts.Logger)

	return &Module{
		Coordinator: coordinator,
		Screen:      screen,
		Monitor:     regionMonitor,
		Map:         store,
		scheduler:   scheduler,
		device:      device,
		handler:     h,
		subscriber:  sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

func (m *Module) Start() {
	m.scheduler.Start()
}

// Shutdown stops pending notification jobs and waits for in-flight
// geocode lookups and device deliveries.
func (m *Module) Shutdown() error {
	err := m.scheduler.Shutdown()
	m.Coordinator.Wait()
	m.device.Wait()
	return err
}

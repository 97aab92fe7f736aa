package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/gss09/RegionMonitor/config"
	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	lg := logger.New(level)

	if err := run(cfg, lg); err != nil {
		lg.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		if err := core.Migrate(ctx, db); err != nil {
			return err
		}
	} else {
		lg.Info("entry journal disabled")
	}

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		return err
	}
	defer mqttClient.Disconnect(250)

	lang, err := language.Parse(cfg.Geocoder.Locale)
	if err != nil {
		lg.Warn("invalid geocoder locale, using english", "locale", cfg.Geocoder.Locale, logger.Err(err))
		lang = language.English
	}
	geocoderOpts := core.GeocoderOptions{
		Language: lang,
		HitTTL:   cfg.Geocoder.HitTTL,
		MissTTL:  cfg.Geocoder.MissTTL,
	}

	coreModule, err := core.Build(db, amqpConn, mqttClient, core.Options{
		DeviceID:            cfg.DeviceID,
		MonitoringAvailable: !cfg.Monitoring.Disabled,
		Geocoder:            geocoderOpts,
		Logger:              lg,
	})
	if err != nil {
		return err
	}

	coreModule.Start()
	defer func() {
		if err := coreModule.Shutdown(); err != nil {
			lg.Error("core module shutdown", logger.Err(err))
		}
	}()

	if err := coreModule.StartSubscribers(); err != nil {
		return err
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", "port", cfg.HTTPPort, "device", cfg.DeviceID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gss09/RegionMonitor/config"
	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core"
)

type notificationMessage struct {
	DeviceID   string `json:"device_id"`
	Identifier string `json:"identifier"`
	Body       string `json:"body"`
	Badge      int    `json:"badge"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	lg := logger.New(level)

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		lg.Error("rabbitmq connect", logger.Err(err))
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		lg.Error("rabbitmq channel", logger.Err(err))
		os.Exit(1)
	}
	defer func() { _ = ch.Close() }()

	if err := core.DeclareNotifications(ch); err != nil {
		lg.Error("declare", logger.Err(err))
		os.Exit(1)
	}

	msgs, err := ch.Consume(core.NotificationQueue, "", true, false, false, false, nil)
	if err != nil {
		lg.Error("consume", logger.Err(err))
		os.Exit(1)
	}

	lg.Info("waiting for local notifications", "queue", core.NotificationQueue)

	go func() {
		for msg := range msgs {
			var n notificationMessage
			if err := json.Unmarshal(msg.Body, &n); err != nil {
				lg.Warn("invalid notification", logger.Err(err))
				continue
			}
			fmt.Printf("[%s] %s (badge %d) -> %s\n", n.Identifier, n.Body, n.Badge, n.DeviceID)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	lg.Info("shutting down")
}

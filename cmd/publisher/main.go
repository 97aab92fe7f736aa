package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/gss09/RegionMonitor/config"
	"github.com/gss09/RegionMonitor/logger"
	"github.com/gss09/RegionMonitor/module/core/domain"
)

const topicPrefix = "/regionmonitor/device/"

type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type authorizationMessage struct {
	Status          domain.AuthorizationStatus `json:"status"`
	ServicesEnabled bool                       `json:"services_enabled"`
}

type stateMessage struct {
	Foreground bool `json:"foreground"`
	Badge      int  `json:"badge"`
}

type screenMessage struct {
	Event string `json:"event"`
}

// route walks from outside both fences into the school, out again and
// into the park.
func route() []domain.Coordinate {
	regions := domain.DefaultRegions()
	school, park := regions[0].Center, regions[1].Center
	start := domain.Coordinate{Lat: school.Lat - 0.004, Lon: school.Lon - 0.004}
	between := domain.Coordinate{Lat: (school.Lat+park.Lat)/2 + 0.002, Lon: (school.Lon + park.Lon) / 2}

	var points []domain.Coordinate
	points = append(points, interpolate(start, school, 6)...)
	points = append(points, interpolate(school, between, 4)...)
	points = append(points, interpolate(between, park, 4)...)
	return points
}

func interpolate(from, to domain.Coordinate, steps int) []domain.Coordinate {
	out := make([]domain.Coordinate, 0, steps)
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		out = append(out, domain.Coordinate{
			Lat: from.Lat + (to.Lat-from.Lat)*f + (rand.Float64()-0.5)*0.00005, // ~3m jitter
			Lon: from.Lon + (to.Lon-from.Lon)*f + (rand.Float64()-0.5)*0.00005,
		})
	}
	return out
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds> [background]\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}
	background := len(os.Args) > 2 && os.Args[2] == "background"

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	lg := logger.New(level)

	cfg.MQTT.ClientID = "regionmonitor-simulator"
	client, err := config.NewMQTT(cfg)
	if err != nil {
		lg.Error("mqtt connect", logger.Err(err))
		os.Exit(1)
	}
	defer client.Disconnect(250)

	publish := func(kind string, v any) {
		payload, _ := json.Marshal(v)
		topic := topicPrefix + cfg.DeviceID + "/" + kind
		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			lg.Error("publish failed", "topic", topic, logger.Err(err))
			return
		}
		lg.Info("published", "topic", topic, "payload", string(payload))
	}

	publish("state", stateMessage{Foreground: !background})
	publish("screen", screenMessage{Event: "appear"})
	publish("authorization", authorizationMessage{Status: domain.NotDetermined, ServicesEnabled: true})
	publish("authorization", authorizationMessage{Status: domain.AuthorizedWhenInUse, ServicesEnabled: true})

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for _, point := range route() {
		<-ticker.C
		publish("location", locationMessage{
			Latitude:  point.Lat,
			Longitude: point.Lon,
			Timestamp: time.Now().Unix(),
		})
	}
	lg.Info("route finished")
}

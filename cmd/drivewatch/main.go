// DriveWatch - driver micro-sleep monitor
//
// Captures webcam frames, gets facial landmarks from a detection
// sidecar, classifies driver alertness, and fires audio alarms.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drivewatch/go-drivewatch/internal/config"
	"github.com/drivewatch/go-drivewatch/internal/log"
	"github.com/drivewatch/go-drivewatch/pkg/alert"
	"github.com/drivewatch/go-drivewatch/pkg/capture"
	"github.com/drivewatch/go-drivewatch/pkg/landmarks"
	"github.com/drivewatch/go-drivewatch/pkg/monitor"
	"github.com/drivewatch/go-drivewatch/pkg/web"
)

func main() {
	var (
		debug       = flag.Bool("debug", false, "enable debug logging")
		preset      = flag.String("preset", "default", "monitor preset: default, strict, relaxed")
		port        = flag.String("port", config.DashboardPort(), "dashboard port")
		landmarkURL = flag.String("landmark-url", config.LandmarkURL(), "landmark sidecar websocket URL")
		device      = flag.Int("device", config.CameraDevice(), "camera device index")
		fps         = flag.Int("fps", 15, "capture frame rate")
		fallback    = flag.Float64("fallback-ear", 0, "fallback EAR threshold when calibration fails (0 = retry instead)")
	)
	flag.Parse()

	if *debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	cfg := monitorConfig(*preset)
	cfg.FallbackEARThreshold = *fallback

	mon, err := monitor.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Alarm worker
	sink := alert.NewExecSink(config.WarningCommand(), config.EmergencyCommand())
	dispatcher := alert.NewDispatcher(sink)
	go dispatcher.Run(ctx)
	defer sink.Close()

	// Dashboard
	server := web.NewServer(*port, mon)
	server.StartAsync()
	defer server.Shutdown()

	// Frame source
	camCfg := capture.DefaultConfig()
	camCfg.Device = *device
	camCfg.Framerate = *fps
	webcam, err := capture.OpenWebcam(camCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "camera: %v\n", err)
		os.Exit(1)
	}

	client := landmarks.NewClient(*landmarkURL)
	source := landmarks.NewCameraSource(webcam, client, time.Second/time.Duration(*fps))
	defer source.Close()

	log.Info("drivewatch started",
		"session", mon.SessionID(), "preset", *preset, "fps", *fps, "sidecar", *landmarkURL)

	for {
		obs, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("drivewatch stopping")
				return
			}
			log.Error("frame source failed", "err", err)
			return
		}

		if req := mon.ProcessFrame(obs); req != nil {
			dispatcher.Submit(*req)
			server.PushAlert(*req)
		}
		server.PushState()
	}
}

func monitorConfig(preset string) monitor.Config {
	switch preset {
	case "strict":
		return monitor.StrictConfig()
	case "relaxed":
		return monitor.RelaxedConfig()
	default:
		return monitor.DefaultConfig()
	}
}

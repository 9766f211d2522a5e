// DriveWatch simulator - runs scripted EAR/MAR traces through the real
// monitoring core and prints every state transition. Useful for tuning
// thresholds without a camera or sidecar.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/drivewatch/go-drivewatch/internal/log"
	"github.com/drivewatch/go-drivewatch/pkg/alert"
	"github.com/drivewatch/go-drivewatch/pkg/landmarks"
	"github.com/drivewatch/go-drivewatch/pkg/monitor"
)

func main() {
	var (
		debug  = flag.Bool("debug", false, "enable debug logging")
		preset = flag.String("preset", "default", "monitor preset: default, strict, relaxed")
	)
	flag.Parse()

	if *debug {
		log.Init("debug")
	} else {
		log.Init("warn")
	}

	cfg := monitorConfig(*preset)
	mon, err := monitor.New(cfg)
	if err != nil {
		fmt.Println("invalid config:", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := alert.NewMockSink()
	dispatcher := alert.NewDispatcher(sink)
	go dispatcher.Run(ctx)

	source := landmarks.NewReplay(script(cfg))

	fmt.Println("DriveWatch simulator")
	fmt.Printf("preset=%s microsleep=%v debounce=%v\n\n", *preset, cfg.MicroSleepDuration, cfg.StateDebounce)

	frames := 0
	for {
		obs, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println("source:", err)
			return
		}
		frames++

		if req := mon.ProcessFrame(obs); req != nil {
			snap := mon.Snapshot()
			fmt.Printf("[%6.2fs] %-7s severity=%-9s reason=%-15s ear=%.3f blink_rate=%.1f\n",
				obs.Timestamp.Sub(start).Seconds(), req.State, req.Severity, req.Reason,
				snap.EAR, snap.BlinkRate)
			dispatcher.Submit(*req)
		}
	}

	fmt.Printf("\n%d frames, %d alarms played, %d coalesced\n",
		frames, len(sink.Played()), dispatcher.Dropped())
}

var start = time.Now()

// script builds a drive: calibration, normal driving with blinks, a
// yawn, a micro-sleep, recovery, then a look-away.
func script(cfg monitor.Config) []landmarks.Observation {
	const dt = 50 * time.Millisecond // 20 fps
	var obs []landmarks.Observation
	t := start

	emit := func(d time.Duration, ear, mar float64, face bool) {
		for elapsed := time.Duration(0); elapsed < d; elapsed += dt {
			if face {
				obs = append(obs, landmarks.Synth(t, ear, mar))
			} else {
				obs = append(obs, landmarks.NoFace(t))
			}
			t = t.Add(dt)
		}
	}

	openEAR := 0.30
	closedEAR := 0.10

	// Calibration window plus settle time
	emit(cfg.CalibrationDuration+time.Second, openEAR, 0.2, true)

	// Normal driving with a few blinks
	for i := 0; i < 4; i++ {
		emit(2*time.Second, openEAR, 0.2, true)
		emit(150*time.Millisecond, closedEAR, 0.2, true)
	}

	// A long yawn
	emit(cfg.YawnMinDuration+500*time.Millisecond, openEAR, 0.9, true)
	emit(cfg.StateDebounce+time.Second, openEAR, 0.2, true)

	// Micro-sleep
	emit(cfg.MicroSleepDuration+500*time.Millisecond, closedEAR, 0.2, true)
	emit(cfg.StateDebounce+time.Second, openEAR, 0.2, true)

	// Look-away
	emit(cfg.FaceLostDuration+time.Second, 0, 0, false)
	emit(cfg.StateDebounce+time.Second, openEAR, 0.2, true)

	return obs
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

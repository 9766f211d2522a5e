package monitor

import (
	"fmt"
	"time"
)

// Config holds all tunable parameters for fatigue analysis
type Config struct {
	// Calibration
	CalibrationDuration time.Duration // Warm-up window for the personal EAR baseline
	CalibrationFraction float64       // Threshold = fraction × baseline EAR
	FallbackEARThreshold float64      // Used when calibration fails and fallback is enabled (0 disables fallback)

	// Eye closure
	MicroSleepDuration time.Duration // Closed-eye run this long is a micro-sleep, not a blink

	// Blink rate
	BlinkRateWindow  time.Duration // Rolling horizon for blink accounting
	BlinkRateCeiling float64       // Blinks-per-minute above this is "high blink frequency"

	// Yawning
	MARYawnThreshold float64       // MAR above this counts toward a yawn
	YawnMinDuration  time.Duration // Mouth must stay open this long to register a yawn
	YawnWindow       time.Duration // Rolling horizon for yawn episode accounting

	// Face loss
	FaceLostDuration time.Duration // Absence this long is a look-away, shorter is dropped-frame noise

	// Hysteresis
	StateDebounce time.Duration // Signals must stay clear this long before DROWSY/DANGER drops back to NORMAL
}

// DefaultConfig returns the recommended configuration for in-car monitoring
func DefaultConfig() Config {
	return Config{
		CalibrationDuration:  5 * time.Second,
		CalibrationFraction:  0.7,
		FallbackEARThreshold: 0, // Fail calibration loudly by default

		MicroSleepDuration: 2 * time.Second,

		BlinkRateWindow:  60 * time.Second,
		BlinkRateCeiling: 20, // Blinks per minute

		MARYawnThreshold: 0.6,
		YawnMinDuration:  800 * time.Millisecond,
		YawnWindow:       60 * time.Second,

		FaceLostDuration: 2 * time.Second,

		StateDebounce: 1 * time.Second,
	}
}

// StrictConfig returns a configuration that escalates earlier,
// for long-haul or night driving.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.MicroSleepDuration = 1500 * time.Millisecond
	cfg.BlinkRateCeiling = 15
	cfg.FaceLostDuration = 1500 * time.Millisecond
	cfg.StateDebounce = 2 * time.Second // Slower to forgive
	return cfg
}

// RelaxedConfig returns a configuration with fewer false alarms,
// for bumpy roads where landmark jitter is high.
func RelaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.BlinkRateCeiling = 25
	cfg.YawnMinDuration = 1200 * time.Millisecond
	cfg.FaceLostDuration = 3 * time.Second
	return cfg
}

// Validate checks the configuration for values the analysis cannot run with.
func (c Config) Validate() error {
	if c.CalibrationDuration <= 0 {
		return fmt.Errorf("calibration duration must be positive, got %v", c.CalibrationDuration)
	}
	if c.CalibrationFraction <= 0 || c.CalibrationFraction >= 1 {
		return fmt.Errorf("calibration fraction must be in (0, 1), got %v", c.CalibrationFraction)
	}
	if c.MicroSleepDuration <= 0 {
		return fmt.Errorf("micro-sleep duration must be positive, got %v", c.MicroSleepDuration)
	}
	if c.BlinkRateWindow <= 0 {
		return fmt.Errorf("blink rate window must be positive, got %v", c.BlinkRateWindow)
	}
	if c.BlinkRateCeiling <= 0 {
		return fmt.Errorf("blink rate ceiling must be positive, got %v", c.BlinkRateCeiling)
	}
	if c.MARYawnThreshold <= 0 {
		return fmt.Errorf("MAR yawn threshold must be positive, got %v", c.MARYawnThreshold)
	}
	if c.YawnMinDuration <= 0 {
		return fmt.Errorf("yawn min duration must be positive, got %v", c.YawnMinDuration)
	}
	if c.FaceLostDuration <= 0 {
		return fmt.Errorf("face lost duration must be positive, got %v", c.FaceLostDuration)
	}
	if c.StateDebounce <= 0 {
		return fmt.Errorf("state debounce must be positive, got %v", c.StateDebounce)
	}
	return nil
}

// Package config provides configuration helpers for drivewatch commands.
package config

import (
	"os"
	"strconv"
)

// Default service configuration.
const (
	DefaultDashboardPort = "8090"
	DefaultLandmarkURL   = "ws://127.0.0.1:9011/landmarks"
	DefaultCameraDevice  = 0
)

// DashboardPort returns the dashboard port from DASHBOARD_PORT env var.
// Falls back to DefaultDashboardPort if not set.
func DashboardPort() string {
	if port := os.Getenv("DASHBOARD_PORT"); port != "" {
		return port
	}
	return DefaultDashboardPort
}

// LandmarkURL returns the landmark sidecar websocket URL from LANDMARK_URL.
// Falls back to DefaultLandmarkURL if not set.
func LandmarkURL() string {
	if url := os.Getenv("LANDMARK_URL"); url != "" {
		return url
	}
	return DefaultLandmarkURL
}

// CameraDevice returns the capture device index from CAMERA_DEVICE.
// Falls back to DefaultCameraDevice if not set or unparseable.
func CameraDevice() int {
	if dev := os.Getenv("CAMERA_DEVICE"); dev != "" {
		if n, err := strconv.Atoi(dev); err == nil && n >= 0 {
			return n
		}
	}
	return DefaultCameraDevice
}

// WarningCommand returns the shell command used to play warning sounds
// from WARNING_CMD. Empty means use the sink's built-in default.
func WarningCommand() string {
	return os.Getenv("WARNING_CMD")
}

// EmergencyCommand returns the shell command used to play emergency
// sounds from EMERGENCY_CMD. Empty means use the sink's built-in default.
func EmergencyCommand() string {
	return os.Getenv("EMERGENCY_CMD")
}

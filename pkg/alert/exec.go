package alert

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/drivewatch/go-drivewatch/pkg/monitor"
)

// Default playback pipelines per severity. The emergency tone is higher
// pitched and longer, mirroring the classic 1.2 kHz in-cab beeper.
const (
	DefaultWarningCmd   = `gst-launch-1.0 -q audiotestsrc wave=sine freq=880 num-buffers=20 ! audioconvert ! autoaudiosink`
	DefaultEmergencyCmd = `gst-launch-1.0 -q audiotestsrc wave=sine freq=1200 num-buffers=35 ! audioconvert ! autoaudiosink`
)

// ExecSink renders alarms by shelling out to a local audio pipeline,
// one process per sound. Preemption kills the process.
type ExecSink struct {
	warningCmd   string
	emergencyCmd string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewExecSink creates an exec-backed sink. Empty commands fall back to
// the gst-launch defaults.
func NewExecSink(warningCmd, emergencyCmd string) *ExecSink {
	if warningCmd == "" {
		warningCmd = DefaultWarningCmd
	}
	if emergencyCmd == "" {
		emergencyCmd = DefaultEmergencyCmd
	}
	return &ExecSink{warningCmd: warningCmd, emergencyCmd: emergencyCmd}
}

// Play runs the pipeline for the request's severity and waits for it.
func (s *ExecSink) Play(ctx context.Context, req monitor.AlertRequest) error {
	shellCmd := s.warningCmd
	if req.Severity == monitor.SeverityEmergency {
		shellCmd = s.emergencyCmd
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", shellCmd)

	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	err := cmd.Run()

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("play %s alarm: %w", req.Severity, err)
	}
	return nil
}

// Stop kills the in-flight pipeline, if any.
func (s *ExecSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil && s.cmd.Process != nil {
		return s.cmd.Process.Kill()
	}
	return nil
}

// Name returns the backend name.
func (s *ExecSink) Name() string { return "exec" }

// Close implements Sink.
func (s *ExecSink) Close() error { return s.Stop() }

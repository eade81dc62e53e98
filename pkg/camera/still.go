package camera

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// StillSource captures frames by invoking one of the Pi camera still
// tools. Slower than V4L2 but works on stacks where the camera is not
// exposed as a video device.
type StillSource struct {
	tool string // "rpicam-still" or "libcamera-still"
	cfg  Config
}

// OpenStill probes the given still tool with a test capture.
func OpenStill(tool string, cfg Config) (*StillSource, error) {
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrUnavailable, tool)
	}
	s := &StillSource{tool: tool, cfg: cfg}
	if _, err := s.CaptureFrame(); err != nil {
		return nil, fmt.Errorf("%w: %s test capture: %v", ErrUnavailable, tool, err)
	}
	return s, nil
}

func (s *StillSource) IsAvailable() bool {
	return true
}

func (s *StillSource) CaptureFrame() (*Frame, error) {
	out := filepath.Join(os.TempDir(), fmt.Sprintf("glass-frame-%d.jpg", time.Now().UnixNano()))
	defer os.Remove(out)

	cmd := exec.Command(s.tool,
		"--timeout", "1000",
		"--width", strconv.Itoa(s.cfg.Width),
		"--height", strconv.Itoa(s.cfg.Height),
		"--nopreview",
		"--output", out,
	)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("camera: %s: %w", s.tool, err)
	}

	jpeg, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("camera: read capture: %w", err)
	}

	return &Frame{JPEG: jpeg, Width: s.cfg.Width, Height: s.cfg.Height}, nil
}

func (s *StillSource) Close() error {
	return nil
}

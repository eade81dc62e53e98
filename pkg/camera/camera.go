// Package camera provides frame capture for the vision modes.
//
// The capture backend is a closed enum rather than a string tag: the
// Pi camera stack has gone through rpicam-still, libcamera-still and
// plain V4L2, and the device probes them in that order at startup.
package camera

import "errors"

// ErrUnavailable is returned when no capture backend is working.
var ErrUnavailable = errors.New("camera: not available")

// Frame is a single captured image.
type Frame struct {
	// JPEG holds the encoded image bytes.
	JPEG []byte

	// Width and Height are the pixel dimensions, when known.
	Width  int
	Height int
}

// Source produces frames on demand.
type Source interface {
	// IsAvailable reports whether the source can currently capture.
	IsAvailable() bool

	// CaptureFrame grabs one frame.
	CaptureFrame() (*Frame, error)

	// Close releases the capture device.
	Close() error
}

// Backend identifies a capture implementation.
type Backend int

const (
	BackendNone Backend = iota
	BackendRPiCam
	BackendLibCamera
	BackendV4L2
)

func (b Backend) String() string {
	switch b {
	case BackendRPiCam:
		return "rpicam-still"
	case BackendLibCamera:
		return "libcamera-still"
	case BackendV4L2:
		return "v4l2"
	}
	return "none"
}

// Config holds capture parameters.
type Config struct {
	DeviceID int
	Width    int
	Height   int
}

// DefaultConfig returns the device defaults.
func DefaultConfig() Config {
	return Config{DeviceID: 0, Width: 640, Height: 480}
}

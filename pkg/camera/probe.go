package camera

import (
	"github.com/visionaid/go-glass/internal/log"
)

// Probe tries each capture backend in order of preference and returns
// the first one that produces a frame. Returns ErrUnavailable when
// none do; the vision modes then announce the missing camera instead
// of failing the whole device.
func Probe(cfg Config) (Source, Backend, error) {
	if src, err := OpenStill("rpicam-still", cfg); err == nil {
		log.Info("camera ready", "backend", BackendRPiCam.String())
		return src, BackendRPiCam, nil
	} else {
		log.Debug("camera probe failed", "backend", BackendRPiCam.String(), "error", err)
	}

	if src, err := OpenStill("libcamera-still", cfg); err == nil {
		log.Info("camera ready", "backend", BackendLibCamera.String())
		return src, BackendLibCamera, nil
	} else {
		log.Debug("camera probe failed", "backend", BackendLibCamera.String(), "error", err)
	}

	if src, err := OpenV4L2(cfg); err == nil {
		log.Info("camera ready", "backend", BackendV4L2.String())
		return src, BackendV4L2, nil
	} else {
		log.Debug("camera probe failed", "backend", BackendV4L2.String(), "error", err)
	}

	log.Error("no camera backend available")
	return nil, BackendNone, ErrUnavailable
}

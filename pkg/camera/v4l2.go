package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// V4L2Source captures frames from a V4L2 device through OpenCV.
type V4L2Source struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	cfg Config
}

// OpenV4L2 opens the configured capture device and verifies it can
// produce a frame.
func OpenV4L2(cfg Config) (*V4L2Source, error) {
	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, ErrUnavailable
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	s := &V4L2Source{cap: cap, cfg: cfg}
	if _, err := s.CaptureFrame(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *V4L2Source) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cap != nil && s.cap.IsOpened()
}

func (s *V4L2Source) CaptureFrame() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cap == nil {
		return nil, ErrUnavailable
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := s.cap.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("camera: read frame from device %d failed", s.cfg.DeviceID)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("camera: encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())

	return &Frame{
		JPEG:   jpeg,
		Width:  img.Cols(),
		Height: img.Rows(),
	}, nil
}

func (s *V4L2Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cap == nil {
		return nil
	}
	err := s.cap.Close()
	s.cap = nil
	return err
}

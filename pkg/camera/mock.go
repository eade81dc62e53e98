package camera

import "sync"

// Mock implements Source for tests.
type Mock struct {
	// Available reports IsAvailable when AvailableFunc is nil.
	Available bool

	// CaptureFunc is called for each CaptureFrame. If nil, a tiny
	// placeholder frame is returned.
	CaptureFunc func() (*Frame, error)

	mu       sync.Mutex
	captures int
}

// NewMock returns an available mock source.
func NewMock() *Mock {
	return &Mock{Available: true}
}

func (m *Mock) IsAvailable() bool {
	return m.Available
}

func (m *Mock) CaptureFrame() (*Frame, error) {
	m.mu.Lock()
	m.captures++
	m.mu.Unlock()

	if m.CaptureFunc != nil {
		return m.CaptureFunc()
	}
	return &Frame{JPEG: []byte{0xff, 0xd8, 0xff, 0xd9}, Width: 2, Height: 2}, nil
}

func (m *Mock) Close() error {
	return nil
}

// Captures returns how many frames were requested.
func (m *Mock) Captures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captures
}

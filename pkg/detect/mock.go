package detect

import (
	"sync"

	"github.com/visionaid/go-glass/pkg/camera"
)

// Mock implements Detector for tests. Results are returned in order,
// one slice per Detect call; the last slice repeats once exhausted.
type Mock struct {
	// DetectFunc, when set, replaces the scripted results.
	DetectFunc func(frame *camera.Frame) ([]Detection, error)

	// Results are scripted per-call detections.
	Results [][]Detection

	mu    sync.Mutex
	calls int
}

func (m *Mock) Detect(frame *camera.Frame) ([]Detection, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(frame)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Results) == 0 {
		m.calls++
		return nil, nil
	}
	idx := m.calls
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	m.calls++
	return m.Results[idx], nil
}

func (m *Mock) Close() error {
	return nil
}

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

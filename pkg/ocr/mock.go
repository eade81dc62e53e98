package ocr

import (
	"sync"

	"github.com/visionaid/go-glass/pkg/camera"
)

// Mock implements Recognizer for tests.
type Mock struct {
	// RecognizeFunc is called for each Recognize; if nil, Texts are
	// returned in order (last one repeating).
	RecognizeFunc func(frame *camera.Frame) (string, error)

	// Texts are scripted per-call results.
	Texts []string

	mu    sync.Mutex
	calls int
}

func (m *Mock) Recognize(frame *camera.Frame) (string, error) {
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(frame)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Texts) == 0 {
		m.calls++
		return "", nil
	}
	idx := m.calls
	if idx >= len(m.Texts) {
		idx = len(m.Texts) - 1
	}
	m.calls++
	return m.Texts[idx], nil
}

func (m *Mock) Close() error {
	return nil
}

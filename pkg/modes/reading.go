package modes

import (
	"time"

	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/camera"
	"github.com/visionaid/go-glass/pkg/ocr"
)

const defaultReadingInterval = 5 * time.Second

// Reading captures frames and reads any recognized text aloud.
type Reading struct {
	runner
	speaker  Speaker
	camera   camera.Source
	reader   ocr.Recognizer
	interval time.Duration
	backoff  time.Duration
}

// NewReading creates the text recognition worker. camera or reader
// may be nil when the capability is missing; the worker then only
// announces the problem.
func NewReading(speaker Speaker, cam camera.Source, reader ocr.Recognizer, opts Options) *Reading {
	opts.fill()
	if opts.Interval <= 0 {
		opts.Interval = defaultReadingInterval
	}
	return &Reading{
		runner:   newRunner("text-recognition", opts),
		speaker:  speaker,
		camera:   cam,
		reader:   reader,
		interval: opts.Interval,
		backoff:  opts.CaptureBackoff,
	}
}

// Start begins the recognition loop.
func (w *Reading) Start() {
	w.start(w.run)
}

func (w *Reading) run(stop <-chan struct{}) {
	if w.camera == nil || w.reader == nil || !w.camera.IsAvailable() {
		w.speaker.Enqueue("Camera not available for text recognition")
		return
	}

	w.speaker.Enqueue("Text recognition mode activated")

	for {
		frame, err := w.camera.CaptureFrame()
		if err != nil {
			log.Warn("frame capture failed", "worker", w.name, "error", err)
			if !w.sleep(stop, w.backoff) {
				return
			}
			continue
		}

		text, err := w.reader.Recognize(frame)
		if err != nil {
			// Transient: log and try again next cycle.
			log.Warn("text recognition failed", "worker", w.name, "error", err)
		} else if clean := ocr.Normalize(text); clean != "" {
			w.speaker.Enqueue("I can see the following text: " + clean)
		}

		if !w.sleep(stop, w.interval) {
			return
		}
	}
}

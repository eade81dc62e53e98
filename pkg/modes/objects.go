package modes

import (
	"time"

	"github.com/visionaid/go-glass/internal/log"
	"github.com/visionaid/go-glass/pkg/camera"
	"github.com/visionaid/go-glass/pkg/detect"
)

const (
	defaultObjectsInterval = 3 * time.Second
	defaultConfidence      = 0.5
	defaultChangeThreshold = 0.3
)

// Objects describes detected objects aloud, suppressing repeats: a
// scene is only re-announced when the set of visible classes has
// changed enough since the last announcement.
type Objects struct {
	runner
	speaker  Speaker
	camera   camera.Source
	detector detect.Detector

	interval   time.Duration
	backoff    time.Duration
	confidence float64
	changeMin  float64

	// Announcement state, touched only by the worker goroutine.
	lastSpoken map[string]struct{}
	spoken     bool
}

// NewObjects creates the object detection worker.
func NewObjects(speaker Speaker, cam camera.Source, detector detect.Detector, opts Options) *Objects {
	opts.fill()
	if opts.Interval <= 0 {
		opts.Interval = defaultObjectsInterval
	}
	if opts.Confidence <= 0 {
		opts.Confidence = defaultConfidence
	}
	if opts.ChangeThreshold <= 0 {
		opts.ChangeThreshold = defaultChangeThreshold
	}
	return &Objects{
		runner:     newRunner("object-detection", opts),
		speaker:    speaker,
		camera:     cam,
		detector:   detector,
		interval:   opts.Interval,
		backoff:    opts.CaptureBackoff,
		confidence: opts.Confidence,
		changeMin:  opts.ChangeThreshold,
	}
}

// Start begins the detection loop.
func (w *Objects) Start() {
	w.start(w.run)
}

func (w *Objects) run(stop <-chan struct{}) {
	if w.camera == nil || w.detector == nil || !w.camera.IsAvailable() {
		w.speaker.Enqueue("Camera or detection model not available for object detection")
		return
	}

	w.speaker.Enqueue("Object detection mode activated")
	w.lastSpoken = nil
	w.spoken = false

	for {
		frame, err := w.camera.CaptureFrame()
		if err != nil {
			log.Warn("frame capture failed", "worker", w.name, "error", err)
			if !w.sleep(stop, w.backoff) {
				return
			}
			continue
		}

		dets, err := w.detector.Detect(frame)
		if err != nil {
			log.Warn("detection failed", "worker", w.name, "error", err)
		} else {
			w.announce(detect.FilterConfidence(dets, w.confidence))
		}

		if !w.sleep(stop, w.interval) {
			return
		}
	}
}

// announce applies the change-suppression policy and speaks when the
// scene differs enough from the last spoken one.
func (w *Objects) announce(kept []detect.Detection) {
	current := labelSet(kept)
	ratio := changeRatio(w.lastSpoken, current)
	if w.spoken && ratio < w.changeMin {
		return
	}

	if len(kept) > 0 {
		w.speaker.Enqueue("I can see " + detect.Describe(detect.CountLabels(kept)))
	} else {
		w.speaker.Enqueue("No objects detected")
	}

	// The reference set only moves when we actually speak; every
	// iteration would defeat the suppression.
	w.lastSpoken = current
	w.spoken = true
}

func labelSet(dets []detect.Detection) map[string]struct{} {
	set := make(map[string]struct{}, len(dets))
	for _, d := range dets {
		set[d.Label] = struct{}{}
	}
	return set
}

// changeRatio is the symmetric difference over the union of the two
// label sets; 0 when both are empty.
func changeRatio(old, new map[string]struct{}) float64 {
	union := len(new)
	diff := 0
	for label := range old {
		if _, ok := new[label]; !ok {
			diff++
			union++
		}
	}
	for label := range new {
		if _, ok := old[label]; !ok {
			diff++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(diff) / float64(union)
}

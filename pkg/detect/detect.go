// Package detect provides object detection for the object description mode.
package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/visionaid/go-glass/pkg/camera"
)

// Detection is one detected object.
type Detection struct {
	Label      string  // human-readable class name
	Confidence float64 // 0-1
}

// Detector is the interface for detection backends.
type Detector interface {
	// Detect finds objects in the frame.
	Detect(frame *camera.Frame) ([]Detection, error)

	// Close releases resources.
	Close() error
}

// FilterConfidence keeps detections at or above the threshold.
func FilterConfidence(dets []Detection, threshold float64) []Detection {
	var out []Detection
	for _, d := range dets {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// CountLabels tallies detections by label.
func CountLabels(dets []Detection) map[string]int {
	counts := make(map[string]int)
	for _, d := range dets {
		counts[d.Label]++
	}
	return counts
}

// Describe phrases label counts for speech: "one dog, 2 cats".
// Labels are sorted so the same scene always reads the same way.
func Describe(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		n := counts[label]
		if n == 1 {
			parts = append(parts, "one "+label)
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, label))
		}
	}
	return strings.Join(parts, ", ")
}

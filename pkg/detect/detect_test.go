package detect

import (
	"testing"
)

func TestFilterConfidence(t *testing.T) {
	dets := []Detection{
		{Label: "dog", Confidence: 0.9},
		{Label: "cat", Confidence: 0.5},
		{Label: "chair", Confidence: 0.49},
	}
	got := FilterConfidence(dets, 0.5)
	if len(got) != 2 {
		t.Fatalf("got %d detections, want 2", len(got))
	}
	for _, d := range got {
		if d.Label == "chair" {
			t.Error("chair below threshold was kept")
		}
	}
}

func TestCountLabels(t *testing.T) {
	dets := []Detection{
		{Label: "dog"}, {Label: "cat"}, {Label: "dog"}, {Label: "dog"},
	}
	counts := CountLabels(dets)
	if counts["dog"] != 3 || counts["cat"] != 1 {
		t.Errorf("got %v", counts)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   string
	}{
		{"single object", map[string]int{"dog": 1}, "one dog"},
		{"plural", map[string]int{"cat": 3}, "3 cats"},
		{
			"mixed, sorted",
			map[string]int{"dog": 1, "cat": 2, "chair": 1},
			"2 cats, one chair, one dog",
		},
		{"empty", map[string]int{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Describe(tc.counts); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCOCOClassCount(t *testing.T) {
	if len(COCOClasses) != 80 {
		t.Errorf("got %d COCO classes, want 80", len(COCOClasses))
	}
}

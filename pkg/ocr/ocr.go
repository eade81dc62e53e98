// Package ocr provides text recognition for the reading mode.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/visionaid/go-glass/pkg/camera"
)

// Recognizer extracts text from a frame.
type Recognizer interface {
	// Recognize returns the text found in the frame, possibly empty.
	Recognize(frame *camera.Frame) (string, error)

	// Close releases recognizer resources.
	Close() error
}

// Tesseract recognizes text through the tesseract engine.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a recognizer for the given language (e.g. "eng").
func NewTesseract(language string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, fmt.Errorf("ocr: set language %q: %w", language, err)
		}
	}
	return &Tesseract{client: client}, nil
}

// Recognize runs OCR over the frame.
func (t *Tesseract) Recognize(frame *camera.Frame) (string, error) {
	if err := t.client.SetImageFromBytes(frame.JPEG); err != nil {
		return "", fmt.Errorf("ocr: set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}
	return text, nil
}

// Close releases the tesseract client.
func (t *Tesseract) Close() error {
	return t.client.Close()
}

// Normalize collapses all whitespace runs to single spaces and trims
// the ends, turning raw OCR output into something speakable.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

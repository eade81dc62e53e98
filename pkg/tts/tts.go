// Package tts provides a unified interface for text-to-speech providers.
//
// The device default is the Google Translate TTS endpoint (no API key,
// MP3 output), matching the hardware the glass ships with. All
// providers implement the Provider interface so the speech layer never
// cares which backend is in use.
//
// Example usage:
//
//	provider := tts.NewGoogleTranslate(tts.WithLanguage("en"))
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello world")
//	// result.Audio contains MP3 bytes
package tts

import (
	"context"
	"time"
)

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete audio
	// buffer. Blocks until synthesis finishes or ctx is canceled.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Health checks provider reachability.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult is a complete synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the specified format.
	Audio []byte

	// Format describes the audio encoding.
	Format Format

	// CharCount is the number of characters synthesized.
	CharCount int

	// Latency is the time the provider took to respond.
	Latency time.Duration
}

// Format describes the audio encoding parameters.
type Format struct {
	// MIME is the container type (e.g. "audio/mpeg").
	MIME string

	// SampleRate in Hz, when known.
	SampleRate int

	// Channels is 1 for mono, 2 for stereo.
	Channels int
}

// MP3 is the format produced by the Google Translate endpoint.
var MP3 = Format{MIME: "audio/mpeg", SampleRate: 24000, Channels: 1}

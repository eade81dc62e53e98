// Package audio plays synthesized utterances on the device speaker.
//
// Playback is interface-shaped so the speech layer can be tested with
// the fake and so the malgo backend stays replaceable.
package audio

import (
	"context"
	"errors"
)

// ErrNoDevice is returned when no playback device can be opened.
var ErrNoDevice = errors.New("audio: no playback device")

// Player plays one audio buffer at a time.
type Player interface {
	// Play decodes and plays an MP3 buffer, blocking until playback
	// completes, Stop is called, or ctx is canceled.
	Play(ctx context.Context, mp3Data []byte) error

	// Stop aborts the current playback, if any. Safe to call at any
	// time from any goroutine.
	Stop()

	// Close releases the audio device.
	Close() error
}

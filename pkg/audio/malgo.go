package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/malgo"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// MalgoPlayer plays MP3 buffers through miniaudio. Utterances are
// short and sparse, so a playback device is opened per call rather
// than held across the process lifetime.
type MalgoPlayer struct {
	ctx *malgo.AllocatedContext

	mu    sync.Mutex
	abort chan struct{}
}

// NewMalgoPlayer initializes the audio backend.
func NewMalgoPlayer() (*MalgoPlayer, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	return &MalgoPlayer{ctx: ctx}, nil
}

// Play decodes the MP3 buffer and plays it to completion.
func (p *MalgoPlayer) Play(ctx context.Context, mp3Data []byte) error {
	dec, err := mp3.NewDecoder(bytes.NewReader(mp3Data))
	if err != nil {
		return fmt.Errorf("audio: decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return fmt.Errorf("audio: decode mp3: %w", err)
	}

	abort := make(chan struct{})
	p.mu.Lock()
	p.abort = abort
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		if p.abort == abort {
			p.abort = nil
		}
		p.mu.Unlock()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = 2 // go-mp3 always decodes to stereo
	cfg.SampleRate = uint32(dec.SampleRate())

	var (
		pos  int
		once sync.Once
		done = make(chan struct{})
	)
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			n := copy(out, pcm[pos:])
			pos += n
			if pos >= len(pcm) {
				once.Do(func() { close(done) })
			}
		},
	}

	dev, err := malgo.InitDevice(p.ctx.Context, cfg, callbacks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	defer dev.Uninit()

	if err := dev.Start(); err != nil {
		return fmt.Errorf("audio: start playback: %w", err)
	}
	defer dev.Stop()

	select {
	case <-done:
		return nil
	case <-abort:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop aborts the current playback, if any.
func (p *MalgoPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.abort != nil {
		close(p.abort)
		p.abort = nil
	}
}

// Close releases the audio backend.
func (p *MalgoPlayer) Close() error {
	if err := p.ctx.Uninit(); err != nil {
		return err
	}
	p.ctx.Free()
	return nil
}

package speech

import (
	"context"

	"github.com/visionaid/go-glass/pkg/audio"
	"github.com/visionaid/go-glass/pkg/tts"
)

// Engine glues a TTS provider to an audio player, forming the Speaker
// the queue drains into.
type Engine struct {
	provider tts.Provider
	player   audio.Player
}

// NewEngine creates a speaker from a provider and a player.
func NewEngine(provider tts.Provider, player audio.Player) *Engine {
	return &Engine{provider: provider, player: player}
}

// Speak synthesizes the text and plays it, blocking until playback
// completes or is interrupted.
func (e *Engine) Speak(ctx context.Context, text string) error {
	result, err := e.provider.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return e.player.Play(ctx, result.Audio)
}

// Stop halts the current playback.
func (e *Engine) Stop() {
	e.player.Stop()
}

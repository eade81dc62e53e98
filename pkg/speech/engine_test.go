package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/visionaid/go-glass/pkg/audio"
	"github.com/visionaid/go-glass/pkg/tts"
)

func TestEngineSynthesizesThenPlays(t *testing.T) {
	provider := tts.NewMock()
	player := &audio.Fake{}
	e := NewEngine(provider, player)

	if err := e.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if got := provider.SynthesizedTexts(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("provider saw %v", got)
	}
	if player.Plays() != 1 {
		t.Errorf("got %d plays, want 1", player.Plays())
	}
}

func TestEngineSynthesisErrorSkipsPlayback(t *testing.T) {
	provider := tts.NewMock()
	provider.SynthesizeFunc = func(ctx context.Context, text string) (*tts.AudioResult, error) {
		return nil, errors.New("endpoint down")
	}
	player := &audio.Fake{}
	e := NewEngine(provider, player)

	if err := e.Speak(context.Background(), "hello"); err == nil {
		t.Fatal("want synthesis error")
	}
	if player.Plays() != 0 {
		t.Errorf("player was called despite synthesis failure")
	}
}

func TestEngineStopReachesPlayer(t *testing.T) {
	player := &audio.Fake{}
	e := NewEngine(tts.NewMock(), player)
	e.Stop()
	if player.Stops() != 1 {
		t.Errorf("got %d stops, want 1", player.Stops())
	}
}

package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/visionaid/go-glass/internal/log"
)

const (
	googleBaseURL = "https://translate.google.com/translate_tts"

	// The endpoint rejects long q parameters; utterances are split at
	// word boundaries and the MP3 segments concatenated.
	maxChunkLen = 200
)

// GoogleTranslate synthesizes speech through the public Google
// Translate TTS endpoint. No API key is needed, which is why the
// device uses it as default backend.
type GoogleTranslate struct {
	config Config
	client *http.Client
}

// NewGoogleTranslate creates a Google Translate TTS provider.
func NewGoogleTranslate(opts ...Option) *GoogleTranslate {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GoogleTranslate{config: cfg, client: client}
}

// Synthesize converts text to MP3 audio.
func (g *GoogleTranslate) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, WrapError("google", ErrEmptyText)
	}

	start := time.Now()
	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkLen) {
		seg, err := g.fetch(ctx, chunk)
		if err != nil {
			return nil, err
		}
		// MP3 frames are self-delimiting; segments concatenate cleanly.
		audio = append(audio, seg...)
	}

	result := &AudioResult{
		Audio:     audio,
		Format:    MP3,
		CharCount: len(text),
		Latency:   time.Since(start),
	}

	if g.config.DebugDir != "" {
		g.saveDebugCopy(result.Audio)
	}

	return result, nil
}

// Health checks the endpoint with a one-word request.
func (g *GoogleTranslate) Health(ctx context.Context) error {
	_, err := g.fetch(ctx, "ready")
	return err
}

// Close implements Provider. The HTTP client needs no teardown.
func (g *GoogleTranslate) Close() error {
	return nil
}

func (g *GoogleTranslate) fetch(ctx context.Context, text string) ([]byte, error) {
	base := g.config.BaseURL
	if base == "" {
		base = googleBaseURL
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", g.config.Language)
	params.Set("q", text)
	if g.config.Slow {
		params.Set("ttsspeed", "0.3")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, WrapError("google", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, WrapError("google", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Provider: "google"}
	}

	return io.ReadAll(resp.Body)
}

// saveDebugCopy writes the audio next to previous utterances for
// offline listening. Failures only log; synthesis already succeeded.
func (g *GoogleTranslate) saveDebugCopy(audio []byte) {
	name := filepath.Join(g.config.DebugDir, "utterance-"+uuid.NewString()+".mp3")
	if err := os.WriteFile(name, audio, 0o644); err != nil {
		log.Warn("tts debug copy failed", "path", name, "error", err)
	}
}

// splitChunks breaks text into pieces of at most max bytes, splitting
// at word boundaries. A single word longer than max becomes its own
// chunk rather than being cut mid-word.
func splitChunks(text string, max int) []string {
	words := strings.Fields(text)
	var chunks []string
	var cur strings.Builder

	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > max {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

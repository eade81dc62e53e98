package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleTranslateSynthesize(t *testing.T) {
	var gotLang, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	p := NewGoogleTranslate(WithLanguage("en"), WithBaseURL(srv.URL))
	defer p.Close()

	result, err := p.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(result.Audio) != "mp3-bytes" {
		t.Errorf("got audio %q", result.Audio)
	}
	if gotLang != "en" {
		t.Errorf("got tl=%q, want en", gotLang)
	}
	if gotText != "hello world" {
		t.Errorf("got q=%q", gotText)
	}
	if result.CharCount != len("hello world") {
		t.Errorf("got CharCount %d", result.CharCount)
	}
}

func TestGoogleTranslateChunksLongText(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if n := len(r.URL.Query().Get("q")); n > maxChunkLen {
			t.Errorf("chunk of %d bytes exceeds limit %d", n, maxChunkLen)
		}
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	p := NewGoogleTranslate(WithBaseURL(srv.URL))
	long := strings.Repeat("wordy ", 100) // ~600 bytes
	result, err := p.Synthesize(context.Background(), long)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if requests < 2 {
		t.Errorf("got %d requests for long text, want several", requests)
	}
	if len(result.Audio) != requests {
		t.Errorf("segments not concatenated: %d bytes from %d requests", len(result.Audio), requests)
	}
}

func TestGoogleTranslateEmptyText(t *testing.T) {
	p := NewGoogleTranslate()
	if _, err := p.Synthesize(context.Background(), "   "); err == nil {
		t.Fatal("want error for empty text")
	}
}

func TestGoogleTranslateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewGoogleTranslate(WithBaseURL(srv.URL))
	_, err := p.Synthesize(context.Background(), "hi")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("got %T (%v), want *APIError", err, err)
	}
	if !apiErr.IsRetryable() {
		t.Error("503 should be retryable")
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"fits in one", "a b c", 10, []string{"a b c"}},
		{"splits at words", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"oversized word kept whole", "tiny enormousword", 8, []string{"tiny", "enormousword"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitChunks(tc.text, tc.max)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("chunk %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

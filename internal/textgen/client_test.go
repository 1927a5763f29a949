package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jwulff/campuscast/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, logger.NewTestLogger())
}

func reply(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
			},
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{}, logger.NewTestLogger())

	assert.Equal(t, DefaultModel, c.Model)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, DefaultTimeout, c.HTTPClient.Timeout)
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text

		reply("  \"Library opens late Friday.\"\n")(w, r)
	})

	out := c.Generate(context.Background(), "library hours", ToneExciting)

	assert.Equal(t, "Library opens late Friday.", out)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotPrompt, `"library hours"`)
	assert.Contains(t, gotPrompt, "The tone should be exciting")
	assert.Contains(t, gotPrompt, "under 20 words")
}

func TestGenerateUnknownToneIsFormal(t *testing.T) {
	var gotPrompt string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Contents[0].Parts[0].Text
		reply("ok")(w, r)
	})

	c.Generate(context.Background(), "topic", Tone("sarcastic"))
	assert.Contains(t, gotPrompt, "The tone should be formal")
}

func TestRefine(t *testing.T) {
	c := newTestClient(t, reply("Chess Club meets at 4 PM in Room 102."))

	out := c.Refine(context.Background(), "chess club thing at 4 room 102")
	assert.Equal(t, "Chess Club meets at 4 PM in Room 102.", out)
}

func TestFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{"))
		}},
		{"no candidates", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}},
		{"empty text", reply("   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			assert.Equal(t, "fire drill", c.Generate(context.Background(), "fire drill", ToneUrgent))
			assert.Equal(t, "some text", c.Refine(context.Background(), "some text"))
		})
	}
}

func TestFallbackWithoutAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, logger.NewTestLogger())

	assert.Equal(t, "topic", c.Generate(context.Background(), "topic", ToneFormal))
	assert.False(t, called)
}

func TestFallbackOnTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		reply("late")(w, r)
	})
	c.HTTPClient.Timeout = 20 * time.Millisecond

	assert.Equal(t, "original", c.Refine(context.Background(), "original"))
}

func TestEmptyInputSkipsCall(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.Equal(t, "  ", c.Refine(context.Background(), "  "))
	assert.False(t, called)
}

func TestPrompts(t *testing.T) {
	assert.True(t, strings.HasPrefix(GeneratePrompt("x", ToneFormal), "Write a short, clear digital signage notice"))
	assert.Equal(t, `Rewrite this text to be more professional and concise for a TV display: "hi"`, RefinePrompt("hi"))
}

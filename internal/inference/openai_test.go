package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renotrack/renovation-tracker/internal/config"
)

func fakeOpenAI(t *testing.T, content string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIExtractor(t *testing.T) {
	var body map[string]any
	srv := fakeOpenAI(t, `{"renovations":{"kitchen":true,"living_room":true},"evidence":{"kitchen":["new kitchen"]},"confidence":1.4}`, &body)

	prompt, err := LoadPrompt("")
	require.NoError(t, err)
	e := NewOpenAIExtractor(config.InferenceConfig{OpenAIKey: "sk-test", OpenAIModel: "gpt-4o-mini", OpenAIBaseURL: srv.URL + "/v1"}, prompt)

	j, err := e.Extract(context.Background(), "Brand new kitchen.")
	require.NoError(t, err)
	assert.Equal(t, Flags{Kitchen: true, LivingRoom: true}, j.Renovations)
	assert.Equal(t, []string{"new kitchen"}, j.Evidence[AreaKitchen])
	assert.Equal(t, 1.0, j.Confidence)
	assert.Equal(t, SourceOpenAI, j.Source)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].(map[string]any)["content"], "Brand new kitchen.")
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
}

func TestOpenAIExtractorBadJSON(t *testing.T) {
	srv := fakeOpenAI(t, "I think the kitchen was renovated.", nil)
	prompt, err := LoadPrompt("")
	require.NoError(t, err)
	e := NewOpenAIExtractor(config.InferenceConfig{OpenAIKey: "sk-test", OpenAIModel: "gpt-4o-mini", OpenAIBaseURL: srv.URL + "/v1"}, prompt)

	_, err = e.Extract(context.Background(), "x")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestOpenAIExtractorTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	prompt, err := LoadPrompt("")
	require.NoError(t, err)
	e := NewOpenAIExtractor(config.InferenceConfig{
		OpenAIKey:     "sk-test",
		OpenAIModel:   "gpt-4o-mini",
		OpenAIBaseURL: srv.URL + "/v1",
		OpenAITimeout: 200 * time.Millisecond,
	}, prompt)

	start := time.Now()
	_, err = e.Extract(context.Background(), "Remodeled kitchen.")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLoadPrompt(t *testing.T) {
	p, err := LoadPrompt("")
	require.NoError(t, err)
	require.Len(t, p.Messages, 2)
	assert.Equal(t, "system", p.Messages[0].Role)

	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("messages:\n  - role: user\n    content: \"Flags for: {{description}}\"\n"), 0o600))
	p, err = LoadPrompt(path)
	require.NoError(t, err)
	msgs := p.render("tiny house")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Flags for: tiny house", msgs[0].Content)

	require.NoError(t, os.WriteFile(path, []byte("messages: []\n"), 0o600))
	_, err = LoadPrompt(path)
	assert.Error(t, err)

	_, err = LoadPrompt(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewExtractorSelection(t *testing.T) {
	logger := log.New("test")
	logger.SetLevel(log.OFF)

	e, err := NewExtractor(config.InferenceConfig{TextBackend: "openai"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &KeywordExtractor{}, e, "no key falls back")

	e, err = NewExtractor(config.InferenceConfig{TextBackend: "OpenAI", OpenAIKey: "sk-test"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIExtractor{}, e)

	e, err = NewExtractor(config.InferenceConfig{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &KeywordExtractor{}, e)
}

package inference

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v2"

	"github.com/renotrack/renovation-tracker/internal/config"
)

//go:embed prompt.yaml
var defaultPrompt []byte

// ErrBadResponse is returned when the model answer is not a usable
// judgement.
var ErrBadResponse = errors.New("unusable model response")

// Prompt is the chat template.  The user message may contain
// {{description}}, which is replaced with the listing text.
type Prompt struct {
	Messages []struct {
		Role    string `yaml:"role"`
		Content string `yaml:"content"`
	} `yaml:"messages"`
}

// LoadPrompt reads a prompt file, or the built-in prompt when path is
// empty.
func LoadPrompt(path string) (*Prompt, error) {
	data := defaultPrompt
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt: %w", err)
		}
		data = b
	}
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse prompt: %w", err)
	}
	if len(p.Messages) == 0 {
		return nil, errors.New("prompt has no messages")
	}
	return &p, nil
}

func (p *Prompt) render(description string) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(p.Messages))
	for _, m := range p.Messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: strings.ReplaceAll(m.Content, "{{description}}", description),
		})
	}
	return out
}

const defaultOpenAITimeout = 30 * time.Second

// OpenAIExtractor asks a chat model for a JSON judgement.  Each call is
// bounded by the configured timeout.
type OpenAIExtractor struct {
	client  *openai.Client
	model   string
	prompt  *Prompt
	timeout time.Duration
}

func NewOpenAIExtractor(cfg config.InferenceConfig, prompt *Prompt) *OpenAIExtractor {
	timeout := cfg.OpenAITimeout
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	oc := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		oc.BaseURL = cfg.OpenAIBaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIExtractor{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.OpenAIModel,
		prompt:  prompt,
		timeout: timeout,
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, description string) (*Judgement, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    e.prompt.render(description),
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrBadResponse)
	}

	var j Judgement
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &j); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if j.Evidence == nil {
		j.Evidence = map[string][]string{}
	}
	switch {
	case j.Confidence < 0:
		j.Confidence = 0
	case j.Confidence > 1:
		j.Confidence = 1
	}
	j.Source = SourceOpenAI
	return &j, nil
}

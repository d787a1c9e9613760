package inference

import (
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/renotrack/renovation-tracker/internal/config"
)

// NewExtractor picks the text backend from cfg.  The OpenAI backend
// needs an API key; without one the keyword backend is used.
func NewExtractor(cfg config.InferenceConfig, logger *log.Logger) (Extractor, error) {
	switch strings.ToLower(cfg.TextBackend) {
	case SourceOpenAI:
		if cfg.OpenAIKey == "" {
			logger.Warn("TEXT_INFERENCE_BACKEND=openai but OPENAI_API_KEY is empty; using keywords")
			return NewKeywordExtractor(), nil
		}
		prompt, err := LoadPrompt(cfg.PromptFile)
		if err != nil {
			return nil, err
		}
		logger.Infof("text inference via openai model %s", cfg.OpenAIModel)
		return NewOpenAIExtractor(cfg, prompt), nil
	case "", SourceKeywords:
		return NewKeywordExtractor(), nil
	default:
		logger.Warnf("unknown TEXT_INFERENCE_BACKEND %q; using keywords", cfg.TextBackend)
		return NewKeywordExtractor(), nil
	}
}

// NewRoomClassifier returns nil when no classifier endpoint is set.
func NewRoomClassifier(cfg config.InferenceConfig) RoomClassifier {
	if cfg.ClassifierURL == "" {
		return nil
	}
	return NewHTTPRoomClassifier(cfg)
}

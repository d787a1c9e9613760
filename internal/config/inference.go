package config

import (
    "os"
    "time"
)

// InferenceConfig configures both inference adapters.
type InferenceConfig struct {
    TextBackend     string        // "keywords" or "openai"
    OpenAIKey       string        // OPENAI_API_KEY
    OpenAIModel     string        // chat model used for renovation extraction
    OpenAIBaseURL   string        // optional API base, mostly for tests and proxies
    PromptFile      string        // optional YAML prompt override
    ClassifierURL   string        // room classifier endpoint; empty disables photo inference
    ClassifierToken string        // optional bearer token for the classifier
    Timeout         time.Duration // per-call timeout for the room classifier
    OpenAITimeout   time.Duration // per-call timeout for chat completions
}

func LoadInferenceConfig() InferenceConfig {
    return InferenceConfig{
        TextBackend:     envStr("TEXT_INFERENCE_BACKEND", "keywords"),
        OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
        OpenAIModel:     envStr("OPENAI_MODEL", "gpt-4o-mini"),
        OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
        PromptFile:      os.Getenv("PROMPT_FILE"),
        ClassifierURL:   os.Getenv("ROOM_CLASSIFIER_URL"),
        ClassifierToken: os.Getenv("ROOM_CLASSIFIER_TOKEN"),
        Timeout:         envDur("ROOM_CLASSIFIER_TIMEOUT", 10*time.Second),
        OpenAITimeout:   envDur("OPENAI_TIMEOUT", 30*time.Second),
    }
}

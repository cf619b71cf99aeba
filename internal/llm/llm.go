package llm

import (
	"context"
	"fmt"

	"docintel/internal/config"
)

// LLM is the interface for a language model that can generate text from a
// single prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewClient is a factory that creates the LLM client selected by the
// configuration. Credentials must already be resolved on cfg.
func NewClient(cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey, cfg.Temperature)
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL, cfg.Temperature)
	case "gemini":
		return NewGemini(context.Background(), cfg.Gemini.Model, cfg.Gemini.APIKey, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

package factory

import (
	"fmt"

	"yoga-intelligence-be/pkg/llm"
	"yoga-intelligence-be/pkg/llm/compat"
	"yoga-intelligence-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "", "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai", "huggingface":
		return compat.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

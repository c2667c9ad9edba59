package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-intelligence-be/pkg/llm/compat"
	"yoga-intelligence-be/pkg/llm/ollama"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("ollama", "llama3.1", "", "")
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, ollama.DefaultBaseURL, o.BaseURL)

	p, err = NewLLMProvider("huggingface", "m", "", "key")
	require.NoError(t, err)
	assert.IsType(t, &compat.Provider{}, p)

	_, err = NewLLMProvider("gpt-magic", "m", "", "")
	assert.Error(t, err)
}

//go:build integration

package gemini

import (
	"context"
	"os"
	"testing"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiProvider_FreeAPI_Generate(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping free API test")
	}

	client, err := NewClient(context.Background(), apiKey)
	require.NoError(t, err)

	p := NewGeminiProvider(client, "gemini-2.0-flash-001", "Answer in one word.", nil)
	resp, err := p.Generate(context.Background(), &provider.GenerateRequest{
		History: []provider.Message{provider.UserMessage("What colour is the sky on a clear day?")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Text)
	assert.Positive(t, resp.Usage.TotalTokens)
}

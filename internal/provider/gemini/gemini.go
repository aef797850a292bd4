package gemini

import (
	"context"
	"log/slog"

	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
)

// GeminiProvider implements the provider interface over the Gemini API.
type GeminiProvider struct {
	client       GeminiClient
	modelName    string
	systemPrompt string
	logger       *slog.Logger
}

// NewGeminiProvider creates a provider for modelName. The system prompt is
// sent as the system instruction of every request.
func NewGeminiProvider(client GeminiClient, modelName, systemPrompt string, logger *slog.Logger) *GeminiProvider {
	if client == nil {
		panic("client is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GeminiProvider{
		client:       client,
		modelName:    modelName,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// Model returns the active model name.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Generate sends the history to the model and converts its turn.
func (p *GeminiProvider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	contents := toGeminiContents(req.History)
	config := toGeminiConfig(p.systemPrompt, req.Tools)

	p.logger.Debug("generate", "model", p.modelName, "contents", len(contents), "tools", len(req.Tools))

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, mapGeminiError(err)
	}

	return fromGeminiResponse(resp, p.modelName)
}

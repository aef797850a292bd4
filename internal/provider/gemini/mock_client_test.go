package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// generateCall is one recorded GenerateContent request.
type generateCall struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// MockGeminiClient records every request. Responses come from
// GenerateContentFunc when set, otherwise from Responses in order; the last
// response repeats once the queue is drained.
type MockGeminiClient struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Responses           []*genai.GenerateContentResponse

	Calls []generateCall
}

func (m *MockGeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.Calls = append(m.Calls, generateCall{Model: model, Contents: contents, Config: config})
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, model, contents, config)
	}
	if len(m.Responses) == 0 {
		return nil, errors.New("mock gemini client has no responses")
	}
	i := min(len(m.Calls), len(m.Responses)) - 1
	return m.Responses[i], nil
}

// lastCall returns the most recent request, or nil when there was none.
func (m *MockGeminiClient) lastCall() *generateCall {
	if len(m.Calls) == 0 {
		return nil
	}
	return &m.Calls[len(m.Calls)-1]
}

package gemini

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Cyclone1070/boxagent/internal/tool"
	provider "github.com/Cyclone1070/boxagent/internal/provider/models"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// toGeminiContents converts history to Gemini Content format.
func toGeminiContents(history []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if content := messageToGeminiContent(msg); content != nil {
			contents = append(contents, content)
		}
	}
	return contents
}

// messageToGeminiContent converts a single message to Gemini Content format.
// Tool results travel back as function responses under the user role.
func messageToGeminiContent(msg provider.Message) *genai.Content {
	role := genai.Role(genai.RoleUser)
	if msg.Role == provider.RoleModel {
		role = genai.RoleModel
	}

	parts := make([]*genai.Part, 0, 1+len(msg.ToolCalls)+len(msg.ToolResults))

	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}

	for _, call := range msg.ToolCalls {
		parts = append(parts, genai.NewPartFromFunctionCall(call.Name, call.Args))
	}

	for _, result := range msg.ToolResults {
		key := "result"
		if result.IsError {
			key = "error"
		}
		parts = append(parts, genai.NewPartFromFunctionResponse(result.Name, map[string]any{
			key: result.Content,
		}))
	}

	if len(parts) == 0 {
		return nil
	}
	return genai.NewContentFromParts(parts, role)
}

// toGeminiConfig builds the request config: system instruction, tools and
// safety settings.
func toGeminiConfig(systemPrompt string, tools []tool.Declaration) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
		Tools:          toGeminiTools(tools),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts tool declarations to a single Gemini tool.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	functionDeclarations := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, decl := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        decl.Name,
			Description: decl.Description,
		}
		if decl.Parameters != nil {
			fd.Parameters = toGeminiSchema(decl.Parameters)
		}
		functionDeclarations = append(functionDeclarations, fd)
	}

	return []*genai.Tool{
		{FunctionDeclarations: functionDeclarations},
	}
}

// toGeminiSchema converts a tool schema to Gemini Schema, recursively.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGeminiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}
	return schema
}

// toGeminiType converts a schema type to Gemini Type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts Gemini response to internal format.
func fromGeminiResponse(resp *genai.GenerateContentResponse, modelUsed string) (*provider.GenerateResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &provider.ProviderError{
				Code:    provider.ErrorCodeContentBlocked,
				Message: fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
			}
		}
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeInvalidRequest,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeContentBlocked,
			Message: "content blocked by safety filters",
		}
	}

	response := buildResponse(candidate, resp.UsageMetadata, modelUsed)

	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return response, &provider.ProviderError{
			Code:    provider.ErrorCodeContextLength,
			Message: "response truncated due to max tokens",
		}
	}

	return response, nil
}

// buildResponse collects text, thoughts and function calls from a candidate,
// keeping call order.
func buildResponse(candidate *genai.Candidate, usage *genai.GenerateContentResponseUsageMetadata, modelUsed string) *provider.GenerateResponse {
	response := &provider.GenerateResponse{
		ModelUsed: modelUsed,
		Usage:     buildUsage(usage),
	}
	if candidate.Content == nil {
		return response
	}

	var text, thinking strings.Builder
	for _, part := range candidate.Content.Parts {
		switch {
		case part == nil:
		case part.FunctionCall != nil:
			id := part.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			response.ToolCalls = append(response.ToolCalls, provider.ToolCall{
				ID:   id,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		case part.Thought:
			thinking.WriteString(part.Text)
		case part.Text != "":
			text.WriteString(part.Text)
		}
	}
	response.Text = text.String()
	response.Thinking = thinking.String()
	return response
}

// buildUsage converts usage counters.
func buildUsage(usage *genai.GenerateContentResponseUsageMetadata) provider.Usage {
	if usage == nil {
		return provider.Usage{}
	}
	return provider.Usage{
		PromptTokens:   int(usage.PromptTokenCount),
		ResponseTokens: int(usage.CandidatesTokenCount),
		TotalTokens:    int(usage.TotalTokenCount),
	}
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return &provider.ProviderError{
				Code:       provider.ErrorCodeNetwork,
				Message:    "network error",
				Underlying: err,
				Retryable:  true,
			}
		}
		apiErr = *apiErrPtr
	}

	switch apiErr.Code {
	case 401, 403:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case 429:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
			Retryable:  true,
			RetryAfter: parseRetryAfter(&apiErr),
		}
	case 400:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
		}
	case 500, 502, 503, 504:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
			Retryable:  true,
		}
	}
}

// parseRetryAfter looks for a retryDelay in the error details, either at the
// top level of a detail (google.rpc.RetryInfo) or under its metadata.
func parseRetryAfter(apiErr *genai.APIError) *time.Duration {
	if apiErr == nil {
		return nil
	}
	for _, detail := range apiErr.Details {
		if d := parseRetryValue(detail["retryDelay"]); d != nil {
			return d
		}
		if meta, ok := detail["metadata"].(map[string]any); ok {
			if d := parseRetryValue(meta["retryDelay"]); d != nil {
				return d
			}
		}
	}
	return nil
}

// parseRetryValue accepts seconds as a number, "30" or "30s", or a
// {"seconds": N} duration object.
func parseRetryValue(v any) *time.Duration {
	var d time.Duration
	switch val := v.(type) {
	case int:
		d = time.Duration(val) * time.Second
	case int64:
		d = time.Duration(val) * time.Second
	case float64:
		d = time.Duration(val * float64(time.Second))
	case string:
		if secs, err := strconv.ParseFloat(val, 64); err == nil {
			d = time.Duration(secs * float64(time.Second))
		} else if parsed, err := time.ParseDuration(val); err == nil {
			d = parsed
		} else {
			return nil
		}
	case map[string]any:
		return parseRetryValue(val["seconds"])
	default:
		return nil
	}
	if d <= 0 {
		return nil
	}
	return &d
}

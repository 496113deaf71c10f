package vision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/prompts"
)

// openAIAnalyzer implements Analyzer against an OpenAI-compatible chat
// completions endpoint.
type openAIAnalyzer struct {
	client   *resty.Client
	model    string
	endpoint string
}

func newOpenAIAnalyzer(cfg *BackendConfig) *openAIAnalyzer {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openAIAnalyzer{
		client:   client,
		model:    model,
		endpoint: baseURL + "/chat/completions",
	}
}

func (a *openAIAnalyzer) Name() string {
	return "openai"
}

// OpenAI-compatible Chat Completion API request/response structures
type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string for system, []interface{} for user with images
}

type openAITextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type openAIImageContent struct {
	Type     string         `json:"type"`
	ImageURL openAIImageURL `json:"image_url"`
}

type openAIImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Analyze sends the image with the highlight instruction prompt and parses
// the JSON array from the model's text response.
func (a *openAIAnalyzer) Analyze(ctx context.Context, imageData string) ([]domain.Highlight, error) {
	dataURL := imageData
	if !strings.HasPrefix(dataURL, "data:") {
		dataURL = "data:image/png;base64," + dataURL
	}

	req := openAIRequest{
		Model: a.model,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: prompts.HighlightSystemPrompt,
			},
			{
				Role: "user",
				Content: []interface{}{
					openAITextContent{
						Type: "text",
						Text: prompts.HighlightUserPrompt,
					},
					openAIImageContent{
						Type: "image_url",
						ImageURL: openAIImageURL{
							URL:    dataURL,
							Detail: "auto",
						},
					},
				},
			},
		},
		MaxTokens: 1024,
	}

	var resp openAIResponse
	httpResp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(a.endpoint)

	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "openai vision", Err: err}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, &domain.ExternalServiceError{Service: "openai vision", Err: fmt.Errorf("%s", errMsg)}
	}

	if resp.Error != nil {
		return nil, &domain.ExternalServiceError{Service: "openai vision", Err: fmt.Errorf("%s", resp.Error.Message)}
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.ExternalServiceError{
			Service: "openai vision",
			Err:     fmt.Errorf("no choices in response (status: %d)", httpResp.StatusCode()),
		}
	}

	return ParseHighlights(resp.Choices[0].Message.Content)
}

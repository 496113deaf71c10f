package vision

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/brandshot/internal/domain"
	"github.com/timmy/brandshot/internal/prompts"
)

// anthropicAnalyzer implements Analyzer against the Anthropic messages API.
type anthropicAnalyzer struct {
	client   *resty.Client
	model    string
	endpoint string
}

func newAnthropicAnalyzer(cfg *BackendConfig) *anthropicAnalyzer {
	client := resty.New()
	client.SetHeader("x-api-key", cfg.APIKey)
	client.SetHeader("anthropic-version", "2023-06-01")
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	return &anthropicAnalyzer{
		client:   client,
		model:    model,
		endpoint: baseURL + "/messages",
	}
}

func (a *anthropicAnalyzer) Name() string {
	return "anthropic"
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string        `json:"role"`
	Content []interface{} `json:"content"`
}

type anthropicImageContent struct {
	Type   string               `json:"type"`
	Source anthropicImageSource `json:"source"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicTextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze sends the image with the highlight instruction prompt and parses
// the JSON array from the model's text response.
func (a *anthropicAnalyzer) Analyze(ctx context.Context, imageData string) ([]domain.Highlight, error) {
	mediaType, data := splitDataURL(imageData)

	req := anthropicRequest{
		Model:     a.model,
		MaxTokens: 1024,
		System:    prompts.HighlightSystemPrompt,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []interface{}{
					anthropicImageContent{
						Type: "image",
						Source: anthropicImageSource{
							Type:      "base64",
							MediaType: mediaType,
							Data:      data,
						},
					},
					anthropicTextContent{
						Type: "text",
						Text: prompts.HighlightUserPrompt,
					},
				},
			},
		},
	}

	var resp anthropicResponse
	httpResp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(a.endpoint)

	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "anthropic vision", Err: err}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, &domain.ExternalServiceError{Service: "anthropic vision", Err: fmt.Errorf("%s", errMsg)}
	}

	if resp.Error != nil {
		return nil, &domain.ExternalServiceError{Service: "anthropic vision", Err: fmt.Errorf("%s", resp.Error.Message)}
	}

	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text = c.Text
			break
		}
	}
	if text == "" {
		return nil, &domain.ExternalServiceError{
			Service: "anthropic vision",
			Err:     fmt.Errorf("no text content in response (status: %d)", httpResp.StatusCode()),
		}
	}

	return ParseHighlights(text)
}

package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/"
	DefaultModel      = "gemini-3-flash-preview"
	DefaultTimeout    = 60 * time.Second
	DefaultAPIVersion = "v1beta"

	jsonMimeType  = "application/json"
	imageMimeType = "image/jpeg"
)

type Config struct {
	APIKey  string        `mapstructure:"apiKey"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"baseURL"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ErrUnavailable wraps transport failures talking to the Gemini API.
var ErrUnavailable = errors.New("gemini unavailable")

// APIError is a non-2xx answer from the Gemini API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// Client calls generateContent through the genai SDK. It implements both the quest generator
// and the submission verifier.
type Client struct {
	model  string
	models *genai.Models
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
			APIVersion: DefaultAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}

	return &Client{model: cfg.Model, models: client.Models}, nil
}

// classify maps SDK errors onto the package error classes.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{StatusCode: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("%w: error sending request: %w", ErrUnavailable, err)
}

// generate sends one user turn and returns the concatenated text of the first candidate.
func (c *Client) generate(ctx context.Context, parts []*genai.Part, responseSchema *genai.Schema) (string, error) {
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMimeType,
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", malformed("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", malformed("no candidates")
	}

	first := resp.Candidates[0]
	var text strings.Builder
	if first.Content != nil {
		for _, p := range first.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			text.WriteString(p.Text)
		}
	}
	if text.Len() == 0 {
		return "", malformed("empty candidate, finish reason %q", first.FinishReason)
	}

	return text.String(), nil
}

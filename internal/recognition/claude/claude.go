// Package claude recognizes meals from photos using the Anthropic Messages
// API. Audio input is not supported; voice notes need the gemini adapter.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkowalik/dailybite/internal/recognition"
)

const defaultAPIURL = "https://api.anthropic.com/v1/messages"

// anthropicVersion is the Anthropic Messages API version header value.
const anthropicVersion = "2023-06-01"

// request types mirror the Anthropic Messages API structure.
type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string  `json:"role"`
	Content []block `json:"content"`
}

type block struct {
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	Source *source `json:"source,omitempty"`
}

type source struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type Recognizer struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func New(apiKey, model string, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
		baseURL: defaultAPIURL,
		logger:  logger,
	}
}

// buildMessages constructs the Messages API payload for a photo request.
func buildMessages(imageData []byte, mimeType string) []message {
	return []message{{
		Role: "user",
		Content: []block{
			{
				Type: "image",
				Source: &source{
					Type:      "base64",
					MediaType: normaliseMIME(mimeType),
					Data:      base64.StdEncoding.EncodeToString(imageData),
				},
			},
			{Type: "text", Text: recognition.AnalysisPrompt},
		},
	}}
}

// newHTTPRequest creates an authenticated POST request to the Claude API.
func (r *Recognizer) newHTTPRequest(ctx context.Context, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	return req, nil
}

func (r *Recognizer) ProcessImage(ctx context.Context, in io.Reader, mimeType string) (*recognition.Result, error) {
	start := time.Now()

	imageData, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	body := request{
		Model: r.model,
		// A composed meal rarely exceeds a dozen items at ~20 tokens per
		// protocol line; 1024 leaves headroom for verbose models.
		MaxTokens: 1024,
		Messages:  buildMessages(imageData, mimeType),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := r.newHTTPRequest(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Error("failed to close claude response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("claude returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var responseText string
	for _, blk := range respBody.Content {
		if blk.Type == "text" {
			responseText = blk.Text
			break
		}
	}

	meal := recognition.ParseResponse(responseText)
	meal.ID = uuid.NewString()
	meal.RawSource = "photo"
	meal.ProcessingTimeMs = time.Since(start).Milliseconds()

	return &recognition.Result{
		Meal:        meal,
		RawResponse: responseText,
	}, nil
}

// ProcessAudio is not implemented; the Messages API takes no audio input.
func (r *Recognizer) ProcessAudio(ctx context.Context, in io.Reader, mimeType string) (*recognition.Result, error) {
	return nil, fmt.Errorf("audio recognition: %w", recognition.ErrUnsupported)
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts: jpeg, png, gif and webp. Unknown types are coerced to jpeg as the
// most universally supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}

// Package gemini recognizes meals from photos and voice notes using the
// Gemini generateContent API. Media is sent inline as base64.
package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// request types mirror the generateContent API structure.
type request struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type response struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
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
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

func (r *Recognizer) ProcessImage(ctx context.Context, in io.Reader, mimeType string) (*recognition.Result, error) {
	return r.process(ctx, in, mimeType, "photo")
}

func (r *Recognizer) ProcessAudio(ctx context.Context, in io.Reader, mimeType string) (*recognition.Result, error) {
	return r.process(ctx, in, mimeType, "voice")
}

func (r *Recognizer) process(ctx context.Context, in io.Reader, mimeType, source string) (*recognition.Result, error) {
	start := time.Now()

	media, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s input: %w", source, err)
	}

	body := request{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(media),
				}},
				{Text: recognition.AnalysisPrompt},
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", r.baseURL, r.model, r.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gemini: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Error("failed to close gemini response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var responseText string
	if len(respBody.Candidates) > 0 {
		for _, p := range respBody.Candidates[0].Content.Parts {
			if p.Text != "" {
				responseText = p.Text
				break
			}
		}
	}

	meal := recognition.ParseResponse(responseText)
	meal.ID = uuid.NewString()
	meal.RawSource = source
	meal.ProcessingTimeMs = time.Since(start).Milliseconds()

	return &recognition.Result{
		Meal:        meal,
		RawResponse: responseText,
	}, nil
}

// Package ollama recognizes meals from photos using a local Ollama instance
// with a vision-capable model. Audio input is not supported.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkowalik/dailybite/internal/recognition"
)

type Recognizer struct {
	host   string
	model  string
	client *http.Client
}

func New(host, model string) *Recognizer {
	return &Recognizer{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

func (a *Recognizer) ProcessImage(ctx context.Context, r io.Reader, mimeType string) (*recognition.Result, error) {
	start := time.Now()

	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":  a.model,
		"prompt": recognition.AnalysisPrompt,
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
		"stream": false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	meal := recognition.ParseResponse(respBody.Response)
	meal.ID = uuid.NewString()
	meal.RawSource = "photo"
	meal.ProcessingTimeMs = time.Since(start).Milliseconds()

	return &recognition.Result{
		Meal:        meal,
		RawResponse: respBody.Response,
	}, nil
}

// ProcessAudio is not implemented; the generate API takes no audio input.
func (a *Recognizer) ProcessAudio(ctx context.Context, r io.Reader, mimeType string) (*recognition.Result, error) {
	return nil, fmt.Errorf("audio recognition: %w", recognition.ErrUnsupported)
}

package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/recognition"
)

func TestProcessImage(t *testing.T) {
	var gotReq request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": "meal: lunch\nGrilled chicken | 200 | 330 | 62 | 7.2 | 0 | 0.9"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	rec := New("sk-test", "claude-test-model", nil)
	rec.baseURL = server.URL

	result, err := rec.ProcessImage(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, domain.MealLunch, result.Meal.MealType)
	require.Len(t, result.Meal.Items, 1)
	assert.Equal(t, "Grilled chicken", result.Meal.Items[0].Name)
	assert.Equal(t, 330.0, result.Meal.Items[0].Kcal)
	assert.Equal(t, "photo", result.Meal.RawSource)
	assert.NotEmpty(t, result.Meal.ID)
	assert.Contains(t, result.RawResponse, "Grilled chicken")

	// Payload carries the image first and the prompt second.
	require.Len(t, gotReq.Messages, 1)
	require.Len(t, gotReq.Messages[0].Content, 2)
	img := gotReq.Messages[0].Content[0]
	assert.Equal(t, "image", img.Type)
	assert.Equal(t, "image/jpeg", img.Source.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8}), img.Source.Data)
	assert.Equal(t, recognition.AnalysisPrompt, gotReq.Messages[0].Content[1].Text)
}

func TestProcessImageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	rec := New("sk-test", "claude-test-model", nil)
	rec.baseURL = server.URL

	_, err := rec.ProcessImage(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestProcessImageReadError(t *testing.T) {
	rec := New("sk-test", "claude-test-model", nil)

	_, err := rec.ProcessImage(context.Background(), &errReader{}, "image/jpeg")
	assert.Error(t, err)
}

func TestProcessAudioUnsupported(t *testing.T) {
	rec := New("sk-test", "claude-test-model", nil)

	_, err := rec.ProcessAudio(context.Background(), bytes.NewReader(nil), "audio/m4a")
	assert.ErrorIs(t, err, recognition.ErrUnsupported)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/jpeg"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/heic"))
}

// errReader always returns an error on Read.
type errReader struct{}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/recognition"
)

// maxMediaBytes caps uploaded photo/voice payloads at 20 MB.
const maxMediaBytes = 20 << 20

type recognizeResponse struct {
	Meal        domain.DraftMeal `json:"meal"`
	RawResponse string           `json:"rawResponse"`
	MediaKey    string           `json:"mediaKey,omitempty"`
}

func (s *Server) handleRecognizePhoto(w http.ResponseWriter, r *http.Request) {
	s.recognize(w, r, "photo", s.recognizer.ProcessImage)
}

func (s *Server) handleRecognizeVoice(w http.ResponseWriter, r *http.Request) {
	s.recognize(w, r, "voice", s.recognizer.ProcessAudio)
}

func (s *Server) recognize(w http.ResponseWriter, r *http.Request, kind string, process func(context.Context, io.Reader, string) (*recognition.Result, error)) {
	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		s.writeError(w, fmt.Errorf("%w: missing Content-Type", domain.ErrValidation))
		return
	}

	media, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMediaBytes))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	if len(media) == 0 {
		s.writeError(w, fmt.Errorf("%w: empty body", domain.ErrValidation))
		return
	}

	result, err := process(r.Context(), bytes.NewReader(media), mimeType)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := recognizeResponse{
		Meal:        result.Meal,
		RawResponse: result.RawResponse,
	}

	// A failed save does not fail the recognition; the draft is still usable.
	if s.media != nil {
		key, err := s.media.Save(r.Context(), kind, mimeType, bytes.NewReader(media))
		if err != nil {
			s.logger.Warn("failed to store recognition media", "kind", kind, "error", err)
		} else {
			resp.MediaKey = key
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	if s.media == nil {
		s.writeError(w, fmt.Errorf("%w: media storage disabled", domain.ErrNotFound))
		return
	}

	reader, mimeType, err := s.media.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrNotFound, err))
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.Error("failed to close media reader", "error", err)
		}
	}()

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("failed to write media response", "error", err)
	}
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	if s.media == nil {
		s.writeError(w, fmt.Errorf("%w: media storage disabled", domain.ErrNotFound))
		return
	}

	if err := s.media.Delete(r.Context(), r.PathValue("key")); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrNotFound, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Package recognition turns photos and voice notes into meal drafts using an
// AI model. Adapters for concrete providers live in subpackages; this package
// owns the shared prompt and the response line protocol.
package recognition

import (
	"context"
	"errors"
	"io"

	"github.com/mkowalik/dailybite/internal/domain"
)

// AnalysisPrompt is the shared prompt used by all recognition adapters. The
// model answers in a pipe-delimited line protocol so parsing stays trivial
// and provider-independent.
const AnalysisPrompt = `Identify every food item in this input and estimate its nutrition.
First output a single line "meal: <type>" where <type> is one of
breakfast, second_breakfast, lunch, tea, dinner, snack - your best guess
for which meal this is. Then output one line per food item, format:
name | grams | kcal | protein | fat | carbs | confidence
Grams is the estimated portion weight. Kcal, protein, fat and carbs are
for that portion, in kcal and grams. Confidence is 0.0-1.0. Respond with
these lines only, no prose.`

// ErrUnsupported is returned by adapters for input kinds they cannot process.
var ErrUnsupported = errors.New("input not supported by this recognizer")

// Recognizer converts raw media into a meal draft.
type Recognizer interface {
	ProcessImage(ctx context.Context, r io.Reader, mimeType string) (*Result, error)
	ProcessAudio(ctx context.Context, r io.Reader, mimeType string) (*Result, error)
}

// Result is a recognized meal plus the raw model output it was parsed from.
type Result struct {
	Meal        domain.DraftMeal
	RawResponse string
}

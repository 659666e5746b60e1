// Package composer holds the in-memory draft of a meal being assembled from
// search results, scans, or AI recognition before it is committed to the
// ledger.
package composer

import (
	"github.com/google/uuid"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/recognition"
	"github.com/mkowalik/dailybite/internal/units"
)

// Totals is the per-meal macro sum over all draft items.
type Totals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// Composer owns one meal draft and all edits to it. Every operation is a
// silent no-op when there is no active draft or the index is out of range, so
// callers never have to guard.
//
// A Composer belongs to a single goroutine; it is not safe for concurrent
// use.
type Composer struct {
	draft *domain.DraftMeal

	totals      Totals
	totalsValid bool
}

func New() *Composer {
	return &Composer{}
}

// NewDraft starts an empty draft for the given meal type and returns it.
func (c *Composer) NewDraft(mealType domain.MealType) *domain.DraftMeal {
	c.SetDraft(&domain.DraftMeal{
		ID:       uuid.NewString(),
		MealType: mealType,
	})
	return c.draft
}

// SetDraft replaces the active draft. A draft without an ID gets one
// assigned.
func (c *Composer) SetDraft(d *domain.DraftMeal) {
	if d != nil && d.ID == "" {
		d.ID = uuid.NewString()
	}
	c.draft = d
	c.totalsValid = false
}

// Draft returns the active draft, nil when there is none.
func (c *Composer) Draft() *domain.DraftMeal {
	return c.draft
}

// Discard drops the active draft. No network calls are involved; an
// uncommitted draft simply ceases to exist.
func (c *Composer) Discard() {
	c.draft = nil
	c.totalsValid = false
}

// UpdateQuantity changes the quantity of the item at index and rescales its
// macros to the new gram weight.
//
// The per-gram density is re-derived from the item's own current macros and
// current grams, not from the catalog per-100g values, so successive edits
// can compound floating point drift. The original tracker behaves this way
// and downstream totals were signed off against it; do not change the basis
// without product agreement.
func (c *Composer) UpdateQuantity(index int, q domain.Quantity) {
	item := c.item(index)
	if item == nil {
		return
	}

	newGrams := units.QuantityGrams(q)
	if item.QuantityGrams > 0 {
		oldGrams := item.QuantityGrams
		item.Kcal = newGrams * (item.Kcal / oldGrams)
		item.Protein = newGrams * (item.Protein / oldGrams)
		item.Fat = newGrams * (item.Fat / oldGrams)
		item.Carbs = newGrams * (item.Carbs / oldGrams)
	}
	item.QuantityGrams = newGrams
	item.QuantityUnitValue = q.Value
	item.UnitMatched = q.Label()
	c.totalsValid = false
}

// RemoveItem deletes the item at index; later items shift down.
func (c *Composer) RemoveItem(index int) {
	if c.item(index) == nil {
		return
	}
	c.draft.Items = append(c.draft.Items[:index], c.draft.Items[index+1:]...)
	c.totalsValid = false
}

// CycleMealType advances the draft's meal type to the next of the six values,
// wrapping from snack back to breakfast.
func (c *Composer) CycleMealType() {
	if c.draft == nil {
		return
	}
	c.draft.MealType = c.draft.MealType.Next()
}

// AddManualItem appends a catalog product as a new 100g item. At 100g the
// macros are the per-100g density verbatim.
func (c *Composer) AddManualItem(product domain.FoodProduct) {
	if c.draft == nil {
		return
	}
	c.draft.Items = append(c.draft.Items, domain.DraftItem{
		ProductID:         product.ID,
		Name:              product.Name,
		Barcode:           product.Barcode,
		QuantityGrams:     100,
		QuantityUnitValue: 100,
		UnitMatched:       domain.GramsLabel,
		Kcal:              product.Nutrition.KcalPer100g,
		Protein:           product.Nutrition.ProteinPer100g,
		Fat:               product.Nutrition.FatPer100g,
		Carbs:             product.Nutrition.CarbsPer100g,
		Confidence:        1.0,
		Status:            domain.StatusMatched,
	})
	c.totalsValid = false
}

// AddRecognized seeds the draft from a recognition result, or appends the
// recognized items when a draft is already active. The result's item slice
// is copied so later edits never alias the recognizer's output.
func (c *Composer) AddRecognized(result *recognition.Result) {
	if result == nil {
		return
	}
	if c.draft == nil {
		meal := result.Meal
		meal.Items = append([]domain.DraftItem(nil), result.Meal.Items...)
		c.SetDraft(&meal)
		return
	}
	c.draft.Items = append(c.draft.Items, result.Meal.Items...)
	if c.draft.RawSource == "" {
		c.draft.RawSource = result.Meal.RawSource
	}
	c.totalsValid = false
}

// Totals sums kcal and macros over all draft items. The sum is memoized and
// recomputed only after the draft or one of its items changed. An empty or
// absent draft yields all zeros.
func (c *Composer) Totals() Totals {
	if c.totalsValid {
		return c.totals
	}

	var t Totals
	if c.draft != nil {
		for _, item := range c.draft.Items {
			t.Kcal += item.Kcal
			t.Protein += item.Protein
			t.Fat += item.Fat
			t.Carbs += item.Carbs
		}
	}
	c.totals = t
	c.totalsValid = true
	return t
}

// MealTypeLabel resolves a canonical or localized meal type string to its
// display label; unknown strings pass through unchanged.
func MealTypeLabel(s string) string {
	return domain.MealTypeLabel(s)
}

func (c *Composer) item(index int) *domain.DraftItem {
	if c.draft == nil || index < 0 || index >= len(c.draft.Items) {
		return nil
	}
	return &c.draft.Items[index]
}

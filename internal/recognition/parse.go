package recognition

import (
	"strconv"
	"strings"

	"github.com/mkowalik/dailybite/internal/domain"
)

// ParseResponse parses a model response in the line protocol: an optional
// "meal: <type>" header followed by one item per line,
// name | grams | kcal | protein | fat | carbs | confidence.
// Prose lines the model sometimes prepends are skipped.
func ParseResponse(raw string) domain.DraftMeal {
	meal := domain.DraftMeal{
		MealType: domain.MealSnack,
		Items:    make([]domain.DraftItem, 0),
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(strings.ToLower(line), "meal:"); ok {
			if mt, ok := domain.ParseMealType(strings.TrimSpace(rest)); ok {
				meal.MealType = mt
			}
			continue
		}

		// Skip common headers or non-item lines
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
			continue
		}

		if item := ParseLine(line); item != nil {
			meal.Items = append(meal.Items, *item)
		}
	}

	return meal
}

// ParseLine parses one item line. Lines without a name or with fewer than two
// fields are rejected; numeric fields tolerate unit suffixes like "150g".
func ParseLine(line string) *domain.DraftItem {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil
	}

	item := domain.DraftItem{
		Name:        name,
		UnitMatched: domain.GramsLabel,
		Confidence:  0.5,
		Status:      domain.StatusNeedsConfirmation,
	}

	item.QuantityGrams = parseNumber(parts[1])
	if item.QuantityGrams <= 0 {
		return nil
	}
	item.QuantityUnitValue = item.QuantityGrams

	if len(parts) >= 3 {
		item.Kcal = parseNumber(parts[2])
	}
	if len(parts) >= 4 {
		item.Protein = parseNumber(parts[3])
	}
	if len(parts) >= 5 {
		item.Fat = parseNumber(parts[4])
	}
	if len(parts) >= 6 {
		item.Carbs = parseNumber(parts[5])
	}
	if len(parts) >= 7 {
		if c := parseNumber(parts[6]); c > 0 && c <= 1 {
			item.Confidence = c
		}
	}

	return &item
}

// parseNumber extracts the leading decimal number from a field, ignoring unit
// suffixes the model sometimes appends ("150g", "12.5 kcal", "~200").
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "~≈")

	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

package domain

// MealType is one of the six meals a day is divided into. The order below is
// the cycling order used when the user taps through meal types.
type MealType string

const (
	MealBreakfast       MealType = "breakfast"
	MealSecondBreakfast MealType = "second_breakfast"
	MealLunch           MealType = "lunch"
	MealTea             MealType = "tea"
	MealDinner          MealType = "dinner"
	MealSnack           MealType = "snack"
)

var mealTypeOrder = []MealType{
	MealBreakfast,
	MealSecondBreakfast,
	MealLunch,
	MealTea,
	MealDinner,
	MealSnack,
}

// MealTypes returns the six meal types in cycling order.
func MealTypes() []MealType {
	out := make([]MealType, len(mealTypeOrder))
	copy(out, mealTypeOrder)
	return out
}

// Next returns the meal type following m in the fixed order, wrapping from
// snack back to breakfast. An unknown value resets to breakfast.
func (m MealType) Next() MealType {
	for i, mt := range mealTypeOrder {
		if mt == m {
			return mealTypeOrder[(i+1)%len(mealTypeOrder)]
		}
	}
	return mealTypeOrder[0]
}

// Valid reports whether m is one of the six canonical meal types.
func (m MealType) Valid() bool {
	for _, mt := range mealTypeOrder {
		if mt == m {
			return true
		}
	}
	return false
}

// mealTypeLabels maps canonical values and their Polish aliases to display
// labels. Values absent from the table pass through MealTypeLabel unchanged.
var mealTypeLabels = map[string]string{
	string(MealBreakfast):       "Breakfast",
	string(MealSecondBreakfast): "Second breakfast",
	string(MealLunch):           "Lunch",
	string(MealTea):             "Tea",
	string(MealDinner):          "Dinner",
	string(MealSnack):           "Snack",

	"śniadanie":        "Breakfast",
	"drugie śniadanie": "Second breakfast",
	"obiad":            "Lunch",
	"podwieczorek":     "Tea",
	"kolacja":          "Dinner",
	"przekąska":        "Snack",
}

// MealTypeLabel resolves a canonical or localized meal type string to its
// display label. Unrecognized strings are returned unchanged.
func MealTypeLabel(s string) string {
	if label, ok := mealTypeLabels[s]; ok {
		return label
	}
	return s
}

// ParseMealType maps a canonical value or a known alias onto one of the six
// meal types. Unrecognized strings map to snack with ok=false.
func ParseMealType(s string) (MealType, bool) {
	mt := MealType(s)
	if mt.Valid() {
		return mt, true
	}
	switch s {
	case "śniadanie":
		return MealBreakfast, true
	case "drugie śniadanie":
		return MealSecondBreakfast, true
	case "obiad":
		return MealLunch, true
	case "podwieczorek":
		return MealTea, true
	case "kolacja":
		return MealDinner, true
	case "przekąska":
		return MealSnack, true
	}
	return MealSnack, false
}

// Package goal derives daily calorie and macro targets from a user profile.
// It is the local fallback; a server-computed target always takes precedence
// when one is available.
package goal

import (
	"errors"
	"math"

	"github.com/mkowalik/dailybite/internal/domain"
)

// activityMultipliers maps activity levels to their TDEE multiplier. This is
// the single source of truth for valid activity levels.
var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"high":      1.725,
	"very_high": 1.9,
}

// FallbackGoal is returned whenever the profile is too incomplete to compute
// a personal target.
var FallbackGoal = domain.Goal{Calories: 2000, Protein: 160, Fat: 70, Carbs: 250}

// Macro split of the daily calorie budget: 20% protein, 30% fat, 50% carbs,
// at 4/9/4 kcal per gram.
const (
	proteinShare = 0.20
	fatShare     = 0.30
	carbsShare   = 0.50

	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarbs   = 4
)

// BMR computes basal metabolic rate via Mifflin-St Jeor, rounded to the
// nearest kcal. Gender selects the +5/-161 constant; anything other than
// "male" uses the female constant.
func BMR(weightKg, heightCm float64, age int, gender string) int {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr))
}

// DailyGoal computes the daily target for a profile. When weight, height,
// age, gender, or activity level is missing, or the activity level is not
// recognized, the fixed fallback target is returned instead.
func DailyGoal(p domain.Profile) domain.Goal {
	if p.WeightKg == nil || p.HeightCm == nil || p.Age == nil || p.Gender == nil || p.ActivityLevel == nil {
		return FallbackGoal
	}
	mult, ok := activityMultipliers[*p.ActivityLevel]
	if !ok {
		return FallbackGoal
	}

	bmr := BMR(*p.WeightKg, *p.HeightCm, *p.Age, *p.Gender)
	tdee := int(math.Round(float64(bmr) * mult))

	return domain.Goal{
		Calories: tdee,
		Protein:  int(math.Round(float64(tdee) * proteinShare / kcalPerGramProtein)),
		Fat:      int(math.Round(float64(tdee) * fatShare / kcalPerGramFat)),
		Carbs:    int(math.Round(float64(tdee) * carbsShare / kcalPerGramCarbs)),
	}
}

// BMI expects height in centimeters and weight in kilograms.
func BMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// MacroProgress is consumption against one target field.
type MacroProgress struct {
	Consumed float64 `json:"consumed"`
	Target   float64 `json:"target"`
	Percent  float64 `json:"percent"`
}

// Progress computes per-macro consumption against a goal for one daily log.
// Percentages are clamped to 1.0; a zero target reports zero percent.
func Progress(g domain.Goal, log *domain.DailyLog) map[string]MacroProgress {
	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}

	var kcal, protein, fat, carbs float64
	if log != nil {
		kcal = log.TotalKcal
		protein = log.TotalProtein
		fat = log.TotalFat
		carbs = log.TotalCarbs
	}

	return map[string]MacroProgress{
		"calories": {Consumed: kcal, Target: float64(g.Calories), Percent: pct(kcal, float64(g.Calories))},
		"protein":  {Consumed: protein, Target: float64(g.Protein), Percent: pct(protein, float64(g.Protein))},
		"fat":      {Consumed: fat, Target: float64(g.Fat), Percent: pct(fat, float64(g.Fat))},
		"carbs":    {Consumed: carbs, Target: float64(g.Carbs), Percent: pct(carbs, float64(g.Carbs))},
	}
}

package web

import (
	"net/http"
	"strconv"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/goal"
)

type goalResponse struct {
	Goal        domain.Goal `json:"goal"`
	BMI         *float64    `json:"bmi,omitempty"`
	BMICategory string      `json:"bmiCategory,omitempty"`
}

// handleGetGoal derives a daily goal from profile attributes passed as query
// parameters. Missing or implausible attributes fall back to the default goal.
func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profile := domain.Profile{
		WeightKg:      floatParam(q.Get("weightKg")),
		HeightCm:      floatParam(q.Get("heightCm")),
		Age:           intParam(q.Get("age")),
		Gender:        stringParam(q.Get("gender")),
		ActivityLevel: stringParam(q.Get("activityLevel")),
	}

	resp := goalResponse{Goal: goal.DailyGoal(profile)}

	if profile.HeightCm != nil && profile.WeightKg != nil {
		if bmi, err := goal.BMI(*profile.HeightCm, *profile.WeightKg); err == nil {
			resp.BMI = &bmi
			resp.BMICategory = goal.BMICategory(bmi)
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func floatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intParam(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func stringParam(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package service

import (
	"math"
	"strconv"
	"strings"
)

// Clients submit the same logical field under several names. Resolution
// order is fixed: the first alias present in the payload wins, even if its
// value turns out to be malformed.
var (
	userIDAliases       = []string{"userId", "user_id"}
	sugarValueAliases   = []string{"sugar", "value", "glucose"}
	mealTimingAliases   = []string{"type", "mealTiming", "meal_timing"}
	timeOfDayAliases    = []string{"period", "timeOfDay", "time_of_day"}
	medTimeOfDayAliases = []string{"timeOfDay", "time_of_day"}
	mealRelationAliases = []string{"mealRelation", "meal_relation"}
)

// Display labels for the two fixed code sets. Codes outside the known set
// pass through unchanged in both directions.
var (
	mealTimingLabels = map[string]string{
		"before": "ก่อนอาหาร",
		"after":  "หลังอาหาร",
	}
	timeOfDayLabels = map[string]string{
		"morning": "เช้า",
		"evening": "เย็น",
	}
)

// TranslateMealTiming maps a meal-timing code to its display label
func TranslateMealTiming(code string) string {
	if label, ok := mealTimingLabels[code]; ok {
		return label
	}
	return code
}

// TranslateTimeOfDay maps a time-of-day code to its display label
func TranslateTimeOfDay(code string) string {
	if label, ok := timeOfDayLabels[code]; ok {
		return label
	}
	return code
}

// MealTimingCode maps a display label back to its meal-timing code
func MealTimingCode(label string) string {
	for code, l := range mealTimingLabels {
		if l == label {
			return code
		}
	}
	return label
}

// TimeOfDayCode maps a display label back to its time-of-day code
func TimeOfDayCode(label string) string {
	for code, l := range timeOfDayLabels {
		if l == label {
			return code
		}
	}
	return label
}

// stringField resolves the first alias present in the payload to a
// non-empty string. JSON numbers are accepted for id-like fields.
func stringField(input map[string]interface{}, aliases []string) string {
	for _, key := range aliases {
		v, ok := input[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			return strings.TrimSpace(s)
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
		return ""
	}
	return ""
}

// numberField resolves the first alias present in the payload to a finite
// number. The second result reports whether a usable number was found.
func numberField(input map[string]interface{}, aliases []string) (float64, bool) {
	for _, key := range aliases {
		v, ok := input[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, !math.IsNaN(n) && !math.IsInf(n, 0)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return 0, false
			}
			return f, !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return 0, false
	}
	return 0, false
}

// sugarInput is a canonical sugar reading submission. Type and Period hold
// the translated display labels ready to be stored.
type sugarInput struct {
	UserID string
	Sugar  float64
	Type   string
	Period string
}

func normalizeSugarInput(input map[string]interface{}) (*sugarInput, error) {
	userID := stringField(input, userIDAliases)
	if userID == "" {
		return nil, &ValidationError{Field: "userId"}
	}

	sugar, ok := numberField(input, sugarValueAliases)
	if !ok || sugar < 0 {
		return nil, &ValidationError{Field: "sugar"}
	}

	mealTiming := stringField(input, mealTimingAliases)
	if mealTiming == "" {
		return nil, &ValidationError{Field: "type"}
	}

	timeOfDay := stringField(input, timeOfDayAliases)
	if timeOfDay == "" {
		return nil, &ValidationError{Field: "period"}
	}

	return &sugarInput{
		UserID: userID,
		Sugar:  sugar,
		Type:   TranslateMealTiming(mealTiming),
		Period: TranslateTimeOfDay(timeOfDay),
	}, nil
}

// medicationInput is a canonical medication log submission
type medicationInput struct {
	UserID       string
	TimeOfDay    string
	MealRelation string
	Status       string
}

func normalizeMedicationInput(input map[string]interface{}) (*medicationInput, error) {
	userID := stringField(input, userIDAliases)
	if userID == "" {
		return nil, &ValidationError{Field: "userId"}
	}

	timeOfDay := stringField(input, medTimeOfDayAliases)
	if timeOfDay == "" {
		return nil, &ValidationError{Field: "timeOfDay"}
	}

	mealRelation := stringField(input, mealRelationAliases)
	if mealRelation == "" {
		return nil, &ValidationError{Field: "mealRelation"}
	}

	status := stringField(input, []string{"status"})
	if status == "" {
		return nil, &ValidationError{Field: "status"}
	}

	return &medicationInput{
		UserID:       userID,
		TimeOfDay:    timeOfDay,
		MealRelation: mealRelation,
		Status:       status,
	}, nil
}

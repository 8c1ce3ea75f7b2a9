package types

import (
	"strings"
	"time"
)

// Condition is the observed sky condition of a widget.
type Condition string

const (
	ConditionSunny  Condition = "sunny"
	ConditionCloudy Condition = "cloudy"
	ConditionRain   Condition = "rain"
	ConditionSnow   Condition = "snow"
	ConditionStormy Condition = "stormy"
)

// Conditions lists the accepted conditions in form order.
var Conditions = []Condition{
	ConditionSunny,
	ConditionCloudy,
	ConditionRain,
	ConditionSnow,
	ConditionStormy,
}

// Label is the capitalised option text shown in the form.
func (c Condition) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Widget is one user-entered weather observation. Temperature is always
// Celsius. Widgets are never modified after creation.
type Widget struct {
	City          string    `json:"city"`
	Temperature   float64   `json:"temperature"`
	Condition     Condition `json:"condition"`
	WindSpeed     float64   `json:"windSpeed"`
	WindDirection string    `json:"windDirection"`
	Date          string    `json:"date"`
}

// DateLayout matches the ISO-8601 form produced by JavaScript's
// Date.toISOString, which older persisted collections use.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate renders t as a widget creation date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

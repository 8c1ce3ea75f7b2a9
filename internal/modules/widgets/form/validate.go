package form

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"weatherboard/internal/modules/widgets/types"
)

type Field string

const (
	FieldCity          Field = "city"
	FieldTemperature   Field = "temperature"
	FieldCondition     Field = "condition"
	FieldWindSpeed     Field = "windSpeed"
	FieldWindDirection Field = "windDirection"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldCity, FieldTemperature, FieldCondition, FieldWindSpeed, FieldWindDirection}

// Input is the raw text of a widget submission, as typed into the form.
type Input struct {
	City          string `form:"city" validate:"required"`
	Temperature   string `form:"temperature" validate:"required,float"`
	Condition     string `form:"condition" validate:"required,oneof=sunny cloudy rain snow stormy"`
	WindSpeed     string `form:"windSpeed" validate:"required,float"`
	WindDirection string `form:"windDirection" validate:"required"`
}

// Errors maps a field to its validation message.
type Errors map[Field]string

var messages = map[Field]map[string]string{
	FieldCity: {
		"required": "City is required",
	},
	FieldTemperature: {
		"required": "Temperature is required",
		"float":    "Temperature must be a number",
	},
	FieldCondition: {
		"required": "Weather condition is required",
		"oneof":    "Weather condition must be one of sunny, cloudy, rain, snow, stormy",
	},
	FieldWindSpeed: {
		"required": "Wind speed is required",
		"float":    "Wind speed must be a number",
	},
	FieldWindDirection: {
		"required": "Wind direction is required",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	if err := v.RegisterValidation("float", func(fl validator.FieldLevel) bool {
		_, ok := parseNumber(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return v
}

// parseNumber accepts any finite decimal or exponent form a number input
// can submit, such as ".5", "5." or "1e3", ignoring surrounding space.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Validate checks every field independently and returns one message per
// failing field. A nil result means in is valid.
func Validate(in Input) Errors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{FieldCity: err.Error()}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field := Field(fe.Field())
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[field] = msg
	}
	return out
}

// Build validates in and, when valid, turns it into a widget dated now.
func Build(in Input, now time.Time) (types.Widget, Errors) {
	if errs := Validate(in); errs != nil {
		return types.Widget{}, errs
	}
	// float has already accepted both values.
	temp, _ := parseNumber(in.Temperature)
	wind, _ := parseNumber(in.WindSpeed)
	return types.Widget{
		City:          in.City,
		Temperature:   temp,
		Condition:     types.Condition(in.Condition),
		WindSpeed:     wind,
		WindDirection: in.WindDirection,
		Date:          types.FormatDate(now),
	}, nil
}

// Submission is the JSON shape accepted by the API and the MQTT ingest.
type Submission struct {
	City          string   `json:"city"`
	Temperature   *float64 `json:"temperature"`
	Condition     string   `json:"condition"`
	WindSpeed     *float64 `json:"windSpeed"`
	WindDirection string   `json:"windDirection"`
}

// Input converts s to form text so it goes through the same rules.
func (s Submission) Input() Input {
	return Input{
		City:          s.City,
		Temperature:   formatOptional(s.Temperature),
		Condition:     s.Condition,
		WindSpeed:     formatOptional(s.WindSpeed),
		WindDirection: s.WindDirection,
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

package form

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/types"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func fill(f *Form, city, temp, cond, speed, dir string) {
	f.Change(FieldCity, city)
	f.Change(FieldTemperature, temp)
	f.Change(FieldCondition, cond)
	f.Change(FieldWindSpeed, speed)
	f.Change(FieldWindDirection, dir)
}

func TestSubmit_Valid(t *testing.T) {
	var got []types.Widget
	f := New(func(w types.Widget) error {
		got = append(got, w)
		return nil
	}, fixedClock)

	f.Open()
	fill(f, "London", "20", "sunny", "15", "NW")
	w, ok := f.Submit()
	if !ok {
		t.Fatalf("Submit() ok = false; errors city=%q temp=%q", f.FieldError(FieldCity), f.FieldError(FieldTemperature))
	}

	want := types.Widget{
		City:          "London",
		Temperature:   20,
		Condition:     types.ConditionSunny,
		WindSpeed:     15,
		WindDirection: "NW",
		Date:          "2025-03-01T10:00:00.000Z",
	}
	if w != want {
		t.Errorf("widget = %+v; want %+v", w, want)
	}
	if len(got) != 1 || got[0] != want {
		t.Errorf("onAdd calls = %+v; want exactly [%+v]", got, want)
	}
	if f.IsOpen() {
		t.Error("form still open after successful submit")
	}
	for _, field := range Fields {
		if v := f.Value(field); v != "" {
			t.Errorf("field %s = %q after submit; want reset", field, v)
		}
	}
	if msg, ok := f.Notice().Message(); !ok || msg != SuccessMessage {
		t.Errorf("notice = %q, %v; want %q", msg, ok, SuccessMessage)
	}
}

func TestSubmit_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		city      string
		temp      string
		cond      string
		speed     string
		dir       string
		wantField Field
		wantMsg   string
	}{
		{"missing city", "", "20", "sunny", "15", "NW", FieldCity, "City is required"},
		{"missing temperature", "London", "", "sunny", "15", "NW", FieldTemperature, "Temperature is required"},
		{"non-numeric temperature", "London", "warm", "sunny", "15", "NW", FieldTemperature, "Temperature must be a number"},
		{"missing condition", "London", "20", "", "15", "NW", FieldCondition, "Weather condition is required"},
		{"unknown condition", "London", "20", "foggy", "15", "NW", FieldCondition, "Weather condition must be one of sunny, cloudy, rain, snow, stormy"},
		{"missing wind speed", "London", "20", "sunny", "", "NW", FieldWindSpeed, "Wind speed is required"},
		{"non-numeric wind speed", "London", "20", "sunny", "fast", "NW", FieldWindSpeed, "Wind speed must be a number"},
		{"missing wind direction", "London", "20", "sunny", "15", "", FieldWindDirection, "Wind direction is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			f := New(func(types.Widget) error { calls++; return nil }, fixedClock)
			f.Open()
			fill(f, tt.city, tt.temp, tt.cond, tt.speed, tt.dir)

			if _, ok := f.Submit(); ok {
				t.Fatal("Submit() ok = true; want false")
			}
			if calls != 0 {
				t.Errorf("onAdd called %d times; want 0", calls)
			}
			if got := f.FieldError(tt.wantField); got != tt.wantMsg {
				t.Errorf("FieldError(%s) = %q; want %q", tt.wantField, got, tt.wantMsg)
			}
			for _, other := range Fields {
				if other != tt.wantField && f.FieldError(other) != "" {
					t.Errorf("unexpected error on %s: %q", other, f.FieldError(other))
				}
			}
			if !f.IsOpen() {
				t.Error("form closed after invalid submit")
			}
			if _, ok := f.Notice().Message(); ok {
				t.Error("notice shown after invalid submit")
			}
		})
	}
}

func TestSubmit_AllEmptyReportsEveryField(t *testing.T) {
	f := New(nil, fixedClock)
	f.Open()
	if _, ok := f.Submit(); ok {
		t.Fatal("Submit() on empty form succeeded")
	}
	for _, field := range Fields {
		if f.FieldError(field) == "" {
			t.Errorf("no error for %s", field)
		}
	}
}

func TestFieldError_OnlyWhenTouched(t *testing.T) {
	f := New(nil, fixedClock)
	f.Open()
	f.Change(FieldCity, "")

	if got := f.FieldError(FieldCity); got != "" {
		t.Errorf("untouched FieldError = %q; want empty", got)
	}
	f.Blur(FieldCity)
	if got := f.FieldError(FieldCity); got != "City is required" {
		t.Errorf("touched FieldError = %q; want %q", got, "City is required")
	}
	f.Change(FieldCity, "Paris")
	if got := f.FieldError(FieldCity); got != "" {
		t.Errorf("FieldError after fix = %q; want empty", got)
	}
}

func TestCancel_ResetsAndCloses(t *testing.T) {
	f := New(nil, fixedClock)
	f.Open()
	f.Change(FieldCity, "Berlin")
	f.Blur(FieldTemperature)
	f.Cancel()

	if f.IsOpen() {
		t.Error("form open after Cancel")
	}
	if f.Value(FieldCity) != "" {
		t.Errorf("city = %q after Cancel; want empty", f.Value(FieldCity))
	}
	f.Open()
	if f.FieldError(FieldTemperature) != "" {
		t.Error("touched state survived Cancel")
	}
}

func TestSubmit_DuplicateCity(t *testing.T) {
	f := New(func(w types.Widget) error {
		return fmt.Errorf("add %q: %w", w.City, controller.ErrDuplicateCity)
	}, fixedClock)
	f.Open()
	fill(f, "London", "20", "sunny", "15", "NW")

	if _, ok := f.Submit(); ok {
		t.Fatal("Submit() ok = true for duplicate city")
	}
	if !f.IsOpen() {
		t.Error("form closed after duplicate")
	}
	if got := f.FieldError(FieldCity); got != "A widget for London already exists" {
		t.Errorf("city error = %q", got)
	}
	if f.Value(FieldCity) != "London" {
		t.Error("values lost after duplicate")
	}
}

func TestSubmit_AddFailure(t *testing.T) {
	f := New(func(types.Widget) error { return errors.New("boom") }, fixedClock)
	f.Open()
	fill(f, "London", "20", "sunny", "15", "NW")

	if _, ok := f.Submit(); ok {
		t.Fatal("Submit() ok = true when add failed")
	}
	if f.SubmitError() == "" {
		t.Error("SubmitError() empty after add failure")
	}
	f.Change(FieldCity, "Paris")
	if f.SubmitError() != "" {
		t.Error("SubmitError() not cleared by Change")
	}
}

func TestChange_UnknownFieldIgnored(t *testing.T) {
	f := New(nil, fixedClock)
	f.Change(Field("humidity"), "80")
	f.Blur(Field("humidity"))
	if f.Value(Field("humidity")) != "" || f.FieldError(Field("humidity")) != "" {
		t.Error("unknown field was stored")
	}
}

func TestBuild_NegativeAndDecimal(t *testing.T) {
	w, errs := Build(Input{City: "Oslo", Temperature: "-2.5", Condition: "snow", WindSpeed: "3.75", WindDirection: "N"}, fixedNow)
	if errs != nil {
		t.Fatalf("Build errors = %v", errs)
	}
	if w.Temperature != -2.5 || w.WindSpeed != 3.75 {
		t.Errorf("widget = %+v", w)
	}
}

func TestValidate_NumberForms(t *testing.T) {
	tests := []struct {
		text  string
		want  float64
		valid bool
	}{
		{text: ".5", want: 0.5, valid: true},
		{text: "5.", want: 5, valid: true},
		{text: "1e3", want: 1000, valid: true},
		{text: " 20", want: 20, valid: true},
		{text: "20 ", want: 20, valid: true},
		{text: "-3.5", want: -3.5, valid: true},
		{text: "+4", want: 4, valid: true},
		{text: "NaN"},
		{text: "Inf"},
		{text: "-infinity"},
		{text: "1e400"},
		{text: "1,5"},
		{text: " "},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.text), func(t *testing.T) {
			in := Input{City: "Oslo", Temperature: tt.text, Condition: "snow", WindSpeed: tt.text, WindDirection: "N"}
			w, errs := Build(in, fixedNow)
			if !tt.valid {
				if errs[FieldTemperature] != "Temperature must be a number" || errs[FieldWindSpeed] != "Wind speed must be a number" {
					t.Errorf("errors = %v; want both numbers rejected", errs)
				}
				return
			}
			if errs != nil {
				t.Fatalf("Build errors = %v", errs)
			}
			if w.Temperature != tt.want || w.WindSpeed != tt.want {
				t.Errorf("temperature, wind = %v, %v; want %v", w.Temperature, w.WindSpeed, tt.want)
			}
		})
	}
}

func TestSubmission_Input(t *testing.T) {
	temp, speed := 21.5, 10.0
	in := Submission{City: "Rome", Temperature: &temp, Condition: "cloudy", WindSpeed: &speed, WindDirection: "S"}.Input()
	if in.Temperature != "21.5" || in.WindSpeed != "10" {
		t.Errorf("Input() = %+v", in)
	}

	errs := Validate(Submission{City: "Rome", Condition: "cloudy", WindDirection: "S"}.Input())
	if errs[FieldTemperature] != "Temperature is required" || errs[FieldWindSpeed] != "Wind speed is required" {
		t.Errorf("errors for missing numbers = %v", errs)
	}
}

// Package form implements the add-widget dialog: field values, touched
// tracking, validation and the success notice.
package form

import (
	"errors"
	"fmt"
	"time"

	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/types"
)

// SuccessMessage is raised as a notice after a widget is added.
const SuccessMessage = "Widget created successfully!"

type State int

const (
	Closed State = iota
	Open
)

// Form is not safe for concurrent use; callers serialise access.
type Form struct {
	onAdd func(types.Widget) error
	clock func() time.Time

	state     State
	input     Input
	touched   map[Field]bool
	errs      Errors
	submitErr string
	notice    *Notice
}

func New(onAdd func(types.Widget) error, clock func() time.Time) *Form {
	if clock == nil {
		clock = time.Now
	}
	f := &Form{
		onAdd:  onAdd,
		clock:  clock,
		notice: NewNotice(DefaultNoticeTTL, clock),
	}
	f.reset()
	return f
}

func (f *Form) IsOpen() bool    { return f.state == Open }
func (f *Form) Notice() *Notice { return f.notice }

// Open shows the dialog with whatever values it currently holds.
func (f *Form) Open() {
	f.state = Open
}

// Cancel discards all values and closes the dialog.
func (f *Form) Cancel() {
	f.reset()
	f.state = Closed
}

// Change sets the raw text of field. Unknown fields are ignored.
func (f *Form) Change(field Field, value string) {
	p := f.slot(field)
	if p == nil {
		return
	}
	*p = value
	f.submitErr = ""
	f.errs = Validate(f.input)
}

// Blur marks field as touched so its error becomes visible.
func (f *Form) Blur(field Field) {
	if f.slot(field) == nil {
		return
	}
	f.touched[field] = true
	f.errs = Validate(f.input)
}

// Value returns the current raw text of field.
func (f *Form) Value(field Field) string {
	if p := f.slot(field); p != nil {
		return *p
	}
	return ""
}

// FieldError returns the validation message for field, or "" when the
// field is valid or has not been touched yet.
func (f *Form) FieldError(field Field) string {
	if !f.touched[field] {
		return ""
	}
	return f.errs[field]
}

// SubmitError is set when a valid widget was refused by the collection.
func (f *Form) SubmitError() string {
	return f.submitErr
}

// Submit touches every field and, if all are valid, hands a new widget to
// the add callback. On success the form resets and closes and the success
// notice is shown.
func (f *Form) Submit() (types.Widget, bool) {
	for _, field := range Fields {
		f.touched[field] = true
	}
	w, errs := Build(f.input, f.clock())
	f.errs = errs
	if errs != nil {
		return types.Widget{}, false
	}

	if f.onAdd != nil {
		if err := f.onAdd(w); err != nil {
			if errors.Is(err, controller.ErrDuplicateCity) {
				f.errs = Errors{FieldCity: fmt.Sprintf("A widget for %s already exists", w.City)}
			} else {
				f.submitErr = "Could not add the widget, please try again"
			}
			return types.Widget{}, false
		}
	}

	f.Cancel()
	f.notice.Show(SuccessMessage)
	return w, true
}

func (f *Form) reset() {
	f.input = Input{}
	f.touched = map[Field]bool{}
	f.errs = Validate(f.input)
	f.submitErr = ""
}

func (f *Form) slot(field Field) *string {
	switch field {
	case FieldCity:
		return &f.input.City
	case FieldTemperature:
		return &f.input.Temperature
	case FieldCondition:
		return &f.input.Condition
	case FieldWindSpeed:
		return &f.input.WindSpeed
	case FieldWindDirection:
		return &f.input.WindDirection
	}
	return nil
}

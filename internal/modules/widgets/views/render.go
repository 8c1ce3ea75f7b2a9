package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"time"

	"weatherboard/internal/modules/widgets/card"
	"weatherboard/internal/modules/widgets/form"
	"weatherboard/internal/modules/widgets/types"
	"weatherboard/internal/units"
)

//go:embed templates
var viewsFS embed.FS

const Title = "Weather Dashboard"

var dashboardTmpl *template.Template

// funcs are available to every template. City names go through pathEscape
// before they are placed in a URL path segment.
var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.New("dashboard").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	dashboardTmpl = tmpl
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type FieldView struct {
	Name  form.Field
	Label string
	Kind  string
	Value string
	Error string
}

type ConditionOption struct {
	Value string
	Label string
}

type FormView struct {
	Fields      []FieldView
	Conditions  []ConditionOption
	SubmitError string
}

var fieldLabels = map[form.Field]string{
	form.FieldCity:          "City Name",
	form.FieldTemperature:   "Temperature (°C)",
	form.FieldCondition:     "Weather Condition",
	form.FieldWindSpeed:     "Wind Speed (km/h)",
	form.FieldWindDirection: "Wind Direction",
}

var fieldKinds = map[form.Field]string{
	form.FieldCity:          "text",
	form.FieldTemperature:   "number",
	form.FieldCondition:     "select",
	form.FieldWindSpeed:     "number",
	form.FieldWindDirection: "text",
}

// NewFormView returns nil while f is closed.
func NewFormView(f *form.Form) *FormView {
	if f == nil || !f.IsOpen() {
		return nil
	}
	v := &FormView{SubmitError: f.SubmitError()}
	for _, field := range form.Fields {
		v.Fields = append(v.Fields, FieldView{
			Name:  field,
			Label: fieldLabels[field],
			Kind:  fieldKinds[field],
			Value: f.Value(field),
			Error: f.FieldError(field),
		})
	}
	for _, c := range types.Conditions {
		v.Conditions = append(v.Conditions, ConditionOption{Value: string(c), Label: c.Label()})
	}
	return v
}

type ConfirmView struct {
	City    string
	Title   string
	Message string
}

// NewConfirmView returns nil while c is closed.
func NewConfirmView(c *card.Confirm) *ConfirmView {
	if c == nil || !c.IsOpen() {
		return nil
	}
	return &ConfirmView{City: c.City(), Title: c.Title(), Message: c.Message()}
}

type DashboardData struct {
	Title           string
	Unit            units.Unit
	ToggleLabel     string
	Cards           []card.Card
	Empty           bool
	EmptyMessage    string
	Form            *FormView
	Confirm         *ConfirmView
	Notice          string
	NoticeTTLMillis int64
}

// NewDashboardData builds the page model for widgets shown in u.
func NewDashboardData(widgets []types.Widget, u units.Unit, emptyMessage string) *DashboardData {
	cards := make([]card.Card, 0, len(widgets))
	for _, w := range widgets {
		cards = append(cards, card.New(w, u))
	}
	return &DashboardData{
		Title:        Title,
		Unit:         u,
		ToggleLabel:  "Switch to " + string(u.Other()),
		Cards:        cards,
		Empty:        len(widgets) == 0,
		EmptyMessage: emptyMessage,
	}
}

// WithNotice shows msg; the page hides it after remaining.
func (d *DashboardData) WithNotice(msg string, remaining time.Duration) *DashboardData {
	d.Notice = msg
	d.NoticeTTLMillis = remaining.Milliseconds()
	return d
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderCards executes only the card grid (or empty state) into w.
func RenderCards(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "cards", data)
}

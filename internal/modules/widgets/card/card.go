// Package card builds the display model of a single widget card.
package card

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"weatherboard/internal/modules/widgets/types"
	"weatherboard/internal/units"
)

const (
	ConfirmTitle = "Confirm Deletion"
	longDate     = "January 2, 2006"
)

type Icon struct {
	Name  string
	Color string
}

var icons = map[types.Condition]Icon{
	types.ConditionSunny:  {Name: "wb_sunny", Color: "yellow"},
	types.ConditionCloudy: {Name: "cloud", Color: "gray"},
	types.ConditionRain:   {Name: "grain", Color: "blue"},
	types.ConditionSnow:   {Name: "ac_unit", Color: "lightblue"},
	types.ConditionStormy: {Name: "thunderstorm", Color: "purple"},
}

// IconFor maps a condition to its icon. Matching ignores case; anything
// unrecognised gets the sunny icon.
func IconFor(c types.Condition) Icon {
	if icon, ok := icons[types.Condition(strings.ToLower(string(c)))]; ok {
		return icon
	}
	return icons[types.ConditionSunny]
}

type Card struct {
	City          string
	FormattedDate string
	Temperature   string
	Unit          units.Unit
	Condition     string
	Wind          string
	Icon          Icon
}

// New converts w for display in u.
func New(w types.Widget, u units.Unit) Card {
	return Card{
		City:          w.City,
		FormattedDate: FormatDate(w.Date),
		Temperature:   units.FormatWhole(units.Convert(w.Temperature, u)) + "°",
		Unit:          u,
		Condition:     string(w.Condition),
		Wind:          fmt.Sprintf("Wind: %s km/h, %s", strconv.FormatFloat(w.WindSpeed, 'f', -1, 64), w.WindDirection),
		Icon:          IconFor(w.Condition),
	}
}

// FormatDate renders a stored widget date as "January 2, 2006" in UTC.
// Text that does not parse is returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(longDate)
}

// ConfirmMessage is the body of the delete confirmation dialog.
func ConfirmMessage(city string) string {
	return fmt.Sprintf("Are you sure you want to delete this weather widget for %s?", city)
}

// Confirm is the two-step delete flow of one card. It is not safe for
// concurrent use.
type Confirm struct {
	city   string
	remove func(city string)
	open   bool
}

func NewConfirm(city string, remove func(city string)) *Confirm {
	return &Confirm{city: city, remove: remove}
}

func (c *Confirm) City() string  { return c.city }
func (c *Confirm) IsOpen() bool  { return c.open }
func (c *Confirm) Title() string { return ConfirmTitle }
func (c *Confirm) Message() string {
	return ConfirmMessage(c.city)
}

func (c *Confirm) Open() { c.open = true }

// Cancel closes the dialog without removing anything.
func (c *Confirm) Cancel() { c.open = false }

// Confirm requests removal once and closes. It does nothing while closed.
func (c *Confirm) Confirm() bool {
	if !c.open {
		return false
	}
	c.open = false
	if c.remove != nil {
		c.remove(c.city)
	}
	return true
}

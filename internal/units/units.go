// Package units holds the process-wide temperature display preference and
// hands it to request handlers through their context.
package units

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
)

type Unit string

const (
	Celsius    Unit = "Celsius"
	Fahrenheit Unit = "Fahrenheit"
)

// Other returns the unit a toggle would switch to.
func (u Unit) Other() Unit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// Convert turns a stored Celsius value into u.
func Convert(celsius float64, u Unit) float64 {
	if u == Fahrenheit {
		return celsius*9/5 + 32
	}
	return celsius
}

// Round rounds half away from zero to a whole number. Negative zero
// comes back as zero.
func Round(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

// FormatWhole renders v rounded to a whole number without a fraction or
// exponent, at any magnitude.
func FormatWhole(v float64) string {
	return strconv.FormatFloat(Round(v), 'f', 0, 64)
}

// Preference is the active display unit. It is never persisted and starts
// at Celsius.
type Preference struct {
	mu          sync.Mutex
	unit        Unit
	nextID      int
	subscribers map[int]func(Unit)
}

func NewPreference() *Preference {
	return &Preference{unit: Celsius, subscribers: map[int]func(Unit){}}
}

func (p *Preference) Unit() Unit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unit
}

// Toggle flips the unit and notifies subscribers with the new value.
func (p *Preference) Toggle() Unit {
	p.mu.Lock()
	p.unit = p.unit.Other()
	next := p.unit
	subs := make([]func(Unit), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn for toggle notifications until cancel is called.
func (p *Preference) Subscribe(fn func(Unit)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

type ctxKey struct{}

// WithPreference returns a copy of ctx carrying p.
func WithPreference(ctx context.Context, p *Preference) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the preference provided to ctx. Reading it from a
// context that never went through a provider is a wiring bug, so it panics.
func FromContext(ctx context.Context) *Preference {
	p, ok := ctx.Value(ctxKey{}).(*Preference)
	if !ok || p == nil {
		panic("units: FromContext called outside a preference provider")
	}
	return p
}

// Provide is middleware that makes p available to every handler below it.
func Provide(p *Preference) func(http.Handler) http.Handler {
	if p == nil {
		panic("units: Provide called with nil preference")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPreference(r.Context(), p)))
		})
	}
}

package widgets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"weatherboard/internal/modules/widgets/controller"
	"weatherboard/internal/modules/widgets/form"
	"weatherboard/internal/modules/widgets/types"
)

type fakeAdder struct {
	added []types.Widget
	err   error
}

func (f *fakeAdder) Add(_ context.Context, w types.Widget) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, w)
	return nil
}

type countingObserver map[string]int

func (c countingObserver) MQTTMessage(result string) { c[result]++ }

type captureSubscriber struct {
	handler func(form.Submission) error
}

func (c *captureSubscriber) SetMessageHandler(h func(form.Submission) error) { c.handler = h }

func ptr(v float64) *float64 { return &v }

func TestIngestHandler(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("valid submission is added", func(t *testing.T) {
		adder := &fakeAdder{}
		obs := countingObserver{}
		sub := &captureSubscriber{}
		RegisterMQTTHandler(context.Background(), sub, adder, func() time.Time { return now }, obs, logger)

		err := sub.handler(form.Submission{City: "London", Temperature: ptr(20), Condition: "sunny", WindSpeed: ptr(15), WindDirection: "NW"})
		if err != nil {
			t.Fatalf("handler: %v", err)
		}
		want := types.Widget{City: "London", Temperature: 20, Condition: types.ConditionSunny, WindSpeed: 15, WindDirection: "NW", Date: "2025-03-01T10:00:00.000Z"}
		if len(adder.added) != 1 || adder.added[0] != want {
			t.Errorf("added = %+v; want [%+v]", adder.added, want)
		}
		if obs["accepted"] != 1 {
			t.Errorf("observer = %v", obs)
		}
	})

	t.Run("invalid submission is not added", func(t *testing.T) {
		adder := &fakeAdder{}
		obs := countingObserver{}
		h := newIngestHandler(context.Background(), adder, func() time.Time { return now }, obs, logger)

		if err := h(form.Submission{City: "London"}); err == nil {
			t.Fatal("handler accepted an incomplete submission")
		}
		if len(adder.added) != 0 || obs["invalid"] != 1 {
			t.Errorf("added = %v, observer = %v", adder.added, obs)
		}
	})

	t.Run("duplicate is rejected", func(t *testing.T) {
		adder := &fakeAdder{err: fmt.Errorf("add: %w", controller.ErrDuplicateCity)}
		obs := countingObserver{}
		h := newIngestHandler(context.Background(), adder, func() time.Time { return now }, obs, logger)

		err := h(form.Submission{City: "London", Temperature: ptr(1), Condition: "rain", WindSpeed: ptr(1), WindDirection: "N"})
		if !errors.Is(err, controller.ErrDuplicateCity) {
			t.Errorf("err = %v; want ErrDuplicateCity", err)
		}
		if obs["rejected"] != 1 {
			t.Errorf("observer = %v", obs)
		}
	})

	t.Run("persist failure", func(t *testing.T) {
		adder := &fakeAdder{err: errors.New("disk full")}
		obs := countingObserver{}
		h := newIngestHandler(context.Background(), adder, func() time.Time { return now }, nil, logger)

		if err := h(form.Submission{City: "Oslo", Temperature: ptr(1), Condition: "snow", WindSpeed: ptr(1), WindDirection: "N"}); err == nil {
			t.Error("handler swallowed persist error")
		}
		if len(obs) != 0 {
			t.Errorf("nil observer path touched obs: %v", obs)
		}
	})
}

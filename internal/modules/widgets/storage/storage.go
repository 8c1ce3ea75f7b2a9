// Package storage persists a widget collection as JSON text under a single
// key of a key-value store.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"weatherboard/internal/modules/widgets/repository"
	"weatherboard/internal/modules/widgets/types"
)

// PayloadVersion is written with every saved collection.
const PayloadVersion = 1

type payload struct {
	Version int            `json:"version"`
	Widgets []types.Widget `json:"widgets"`
}

// Adapter saves and loads widget collections.
type Adapter interface {
	Save(ctx context.Context, key string, widgets []types.Widget) error
	Load(ctx context.Context, key string) ([]types.Widget, bool)
}

type adapterImpl struct {
	repo   repository.KVRepository
	logger *slog.Logger
}

func NewAdapter(repo repository.KVRepository, logger *slog.Logger) Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &adapterImpl{repo: repo, logger: logger}
}

// Save overwrites key with the full collection.
func (a *adapterImpl) Save(ctx context.Context, key string, widgets []types.Widget) error {
	text, err := Encode(widgets)
	if err != nil {
		return err
	}
	if err := a.repo.Set(ctx, key, text); err != nil {
		return fmt.Errorf("save widgets: %w", err)
	}
	return nil
}

// Load returns false when key is unset, unreadable or holds content that does
// not decode. None of these are reported as errors: callers start empty.
func (a *adapterImpl) Load(ctx context.Context, key string) ([]types.Widget, bool) {
	text, found, err := a.repo.Get(ctx, key)
	if err != nil {
		a.logger.WarnContext(ctx, "load widgets: storage read failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	widgets, err := Decode(text)
	if err != nil {
		a.logger.WarnContext(ctx, "load widgets: discarding unreadable content", "key", key, "error", err)
		return nil, false
	}
	return widgets, true
}

// Encode renders widgets in the versioned storage format.
func Encode(widgets []types.Widget) (string, error) {
	if widgets == nil {
		widgets = []types.Widget{}
	}
	b, err := json.Marshal(payload{Version: PayloadVersion, Widgets: widgets})
	if err != nil {
		return "", fmt.Errorf("encode widgets: %w", err)
	}
	return string(b), nil
}

// Decode parses the versioned format, and also a bare JSON array as written
// by earlier releases that did not version their payload.
func Decode(text string) ([]types.Widget, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("decode widgets: empty content")
	}

	if trimmed[0] == '[' {
		var widgets []types.Widget
		if err := json.Unmarshal(trimmed, &widgets); err != nil {
			return nil, fmt.Errorf("decode widgets: %w", err)
		}
		return widgets, nil
	}

	var p payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("decode widgets: %w", err)
	}
	if p.Version != PayloadVersion {
		return nil, fmt.Errorf("decode widgets: unsupported version %d", p.Version)
	}
	return p.Widgets, nil
}

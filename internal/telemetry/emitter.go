package telemetry

import (
	"context"
	"encoding/json"
	"io"

	"dendrion/internal/model"
	"dendrion/internal/storage"
)

// Emitter consumes one snapshot per tick. Emit is called from the
// simulation loop, so implementations should return quickly.
type Emitter interface {
	Emit(ctx context.Context, snapshot model.TickSnapshot) error
}

// JSONEmitter streams snapshots as one JSON document per line, or indented
// documents when the output is meant for human eyes.
type JSONEmitter struct {
	enc *json.Encoder
}

func NewJSONEmitter(w io.Writer, indent bool) *JSONEmitter {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return &JSONEmitter{enc: enc}
}

func (e *JSONEmitter) Emit(_ context.Context, snapshot model.TickSnapshot) error {
	return e.enc.Encode(snapshot)
}

// StoreSink persists every nth snapshot. Full per-tick persistence is
// rarely wanted; sampling keeps long runs inspectable without drowning the
// store.
type StoreSink struct {
	store storage.Store
	every int
}

func NewStoreSink(store storage.Store, every int) *StoreSink {
	return &StoreSink{store: store, every: every}
}

func (s *StoreSink) Emit(ctx context.Context, snapshot model.TickSnapshot) error {
	if s.store == nil || s.every <= 0 || snapshot.Tick%s.every != 0 {
		return nil
	}
	return s.store.SaveTickSnapshot(ctx, snapshot)
}

// MultiEmitter fans a snapshot out to several emitters, stopping at the
// first failure.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(ctx context.Context, snapshot model.TickSnapshot) error {
	for _, e := range m {
		if err := e.Emit(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

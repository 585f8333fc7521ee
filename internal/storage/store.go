package storage

import (
	"context"

	"dendrion/internal/model"
)

// Store defines persistence for run artifacts: per-run summaries, sampled
// tick snapshots, and final topology dumps.
type Store interface {
	Init(ctx context.Context) error
	SaveRunSummary(ctx context.Context, summary model.RunSummary) error
	GetRunSummary(ctx context.Context, runID string) (model.RunSummary, bool, error)
	ListRunSummaries(ctx context.Context) ([]model.RunSummary, error)
	SaveTickSnapshot(ctx context.Context, snapshot model.TickSnapshot) error
	GetTickSnapshots(ctx context.Context, runID string) ([]model.TickSnapshot, error)
	SaveTopology(ctx context.Context, topology model.TopologyDump) error
	GetTopology(ctx context.Context, runID string) (model.TopologyDump, bool, error)
}

// Resetter is implemented by stores that can drop all persisted data.
type Resetter interface {
	Reset(ctx context.Context) error
}

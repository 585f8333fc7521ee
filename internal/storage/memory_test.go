package storage

import (
	"context"
	"testing"
	"time"

	"dendrion/internal/model"
)

func TestMemoryStoreRunSummaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := model.RunSummary{
		VersionedRecord: Stamp(),
		RunID:           "run-1",
		Seed:            42,
		Ticks:           1000,
		RewardSum:       120,
		PenaltySum:      80,
		FoodEaten:       3,
	}
	if err := store.SaveRunSummary(ctx, input); err != nil {
		t.Fatalf("save summary: %v", err)
	}

	output, ok, err := store.GetRunSummary(ctx, "run-1")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted summary")
	}
	if output.Seed != 42 || output.RewardSum != 120 {
		t.Fatalf("unexpected summary: %+v", output)
	}

	if _, ok, _ := store.GetRunSummary(ctx, "missing"); ok {
		t.Fatal("unexpected summary for unknown run")
	}
}

func TestMemoryStoreListsSummariesByStartTime(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, run := range []struct {
		id    string
		start time.Time
	}{
		{"run-b", base.Add(time.Hour)},
		{"run-a", base},
		{"run-c", base.Add(time.Hour)},
	} {
		err := store.SaveRunSummary(ctx, model.RunSummary{
			VersionedRecord: Stamp(),
			RunID:           run.id,
			StartedAt:       run.start,
		})
		if err != nil {
			t.Fatalf("save %s: %v", run.id, err)
		}
	}

	list, err := store.ListRunSummaries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length: %d", len(list))
	}
	// Equal timestamps fall back to run ID order.
	want := []string{"run-a", "run-b", "run-c"}
	for i, id := range want {
		if list[i].RunID != id {
			t.Fatalf("order: got=%s want=%s at %d", list[i].RunID, id, i)
		}
	}
}

func TestMemoryStoreSnapshotsAppendInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for tick := 0; tick < 3; tick++ {
		err := store.SaveTickSnapshot(ctx, model.TickSnapshot{
			VersionedRecord: Stamp(),
			RunID:           "run-1",
			Tick:            tick,
			RewardSum:       tick * 2,
		})
		if err != nil {
			t.Fatalf("save snapshot %d: %v", tick, err)
		}
	}

	snapshots, err := store.GetTickSnapshots(ctx, "run-1")
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("snapshot count: %d", len(snapshots))
	}
	for i, snap := range snapshots {
		if snap.Tick != i || snap.RewardSum != i*2 {
			t.Fatalf("unexpected snapshot at %d: %+v", i, snap)
		}
	}

	if got, _ := store.GetTickSnapshots(ctx, "missing"); got != nil {
		t.Fatalf("unexpected snapshots for unknown run: %+v", got)
	}
}

func TestMemoryStoreTopologyRoundTripAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := model.TopologyDump{
		VersionedRecord: Stamp(),
		RunID:           "run-1",
		Tick:            500,
		Synapses: []model.SynapseState{
			{Source: 6, Target: 12, Confidence: 4, Conductive: true},
		},
	}
	if err := store.SaveTopology(ctx, input); err != nil {
		t.Fatalf("save topology: %v", err)
	}

	output, ok, err := store.GetTopology(ctx, "run-1")
	if err != nil {
		t.Fatalf("get topology: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted topology")
	}
	if len(output.Synapses) != 1 || output.Synapses[0].Target != 12 {
		t.Fatalf("unexpected topology: %+v", output)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok, _ := store.GetTopology(ctx, "run-1"); ok {
		t.Fatal("topology survived reset")
	}
}

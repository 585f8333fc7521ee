package dendrion

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"dendrion/internal/nn"
	"dendrion/internal/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return client
}

func TestClientRunProducesStreamAndArtifacts(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	var stream bytes.Buffer
	summary, err := client.Run(ctx, RunRequest{
		RunID:       "run-1",
		Seed:        42,
		MaxTicks:    50,
		SampleEvery: 10,
		Output:      &stream,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.RunID != "run-1" || summary.Seed != 42 {
		t.Fatalf("unexpected summary header: %+v", summary)
	}
	if summary.Ticks != 50 {
		t.Fatalf("ticks: got=%d want=50", summary.Ticks)
	}
	if summary.FinishedAt.Before(summary.StartedAt) {
		t.Fatalf("timestamps out of order: %+v", summary)
	}

	// One JSON document per tick on the stream.
	lines := 0
	sc := bufio.NewScanner(&stream)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		snap, err := storage.DecodeTickSnapshot(sc.Bytes())
		if err != nil {
			t.Fatalf("stream line %d: %v", lines, err)
		}
		if snap.Tick != lines {
			t.Fatalf("stream tick: got=%d want=%d", snap.Tick, lines)
		}
		if len(snap.Neurons) != nn.DefaultParams().Size() {
			t.Fatalf("stream neuron count: %d", len(snap.Neurons))
		}
		lines++
	}
	if lines != 50 {
		t.Fatalf("stream lines: got=%d want=50", lines)
	}

	// Sampled snapshots and the final topology land in the store.
	snapshots, err := client.Snapshots(ctx, "run-1")
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snapshots) != 5 {
		t.Fatalf("sampled snapshots: got=%d want=5", len(snapshots))
	}

	topology, ok, err := client.Topology(ctx, "run-1")
	if err != nil {
		t.Fatalf("topology: %v", err)
	}
	if !ok || len(topology.Synapses) == 0 {
		t.Fatalf("missing topology dump: %+v", topology)
	}

	persisted, ok, err := client.RunSummary(ctx, "run-1")
	if err != nil {
		t.Fatalf("run summary: %v", err)
	}
	if !ok || persisted.Ticks != 50 {
		t.Fatalf("persisted summary: %+v", persisted)
	}
}

func TestClientRunGeneratesRunID(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, RunRequest{Seed: 7, MaxTicks: 3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("run id not generated")
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != summary.RunID {
		t.Fatalf("unexpected run list: %+v", runs)
	}
}

func TestClientRunRejectsSensorMismatch(t *testing.T) {
	client := newTestClient(t)

	params := nn.DefaultParams()
	params.NumSensors = 6
	_, err := client.Run(context.Background(), RunRequest{Seed: 7, MaxTicks: 1, Net: params})
	if err == nil {
		t.Fatal("expected sensor mismatch error")
	}
}

func TestClientResetDropsRuns(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if _, err := client.Run(ctx, RunRequest{RunID: "run-1", Seed: 7, MaxTicks: 2}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := client.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	runs, err := client.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("runs survived reset: %+v", runs)
	}
}

func TestNewWithStoreRequiresStore(t *testing.T) {
	if _, err := NewWithStore(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"dendrion/internal/model"
)

func TestDecodeRunSummaryFixture(t *testing.T) {
	data, err := os.ReadFile(fixturePath("minimal_run_summary_v1.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	summary, err := DecodeRunSummary(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if summary.RunID != "run-minimal-1" {
		t.Fatalf("unexpected run id: %s", summary.RunID)
	}
	if summary.Ticks != 1200 || summary.FoodEaten != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestDecodeTickSnapshotFixture(t *testing.T) {
	data, err := os.ReadFile(fixturePath("minimal_snapshot_v1.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	snapshot, err := DecodeTickSnapshot(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if snapshot.Tick != 42 {
		t.Fatalf("unexpected tick: %d", snapshot.Tick)
	}
	if !snapshot.Reward || snapshot.Penalty {
		t.Fatalf("unexpected signals: %+v", snapshot)
	}
	if snapshot.World.Agent != 15 || snapshot.World.Distance != 11 {
		t.Fatalf("unexpected world: %+v", snapshot.World)
	}
	if len(snapshot.Neurons) != 2 || !snapshot.Neurons[0].Spiked {
		t.Fatalf("unexpected neurons: %+v", snapshot.Neurons)
	}
	if len(snapshot.Synapses) != 2 || !snapshot.Synapses[1].Highlighted {
		t.Fatalf("unexpected synapses: %+v", snapshot.Synapses)
	}
}

func TestDecodeTopologyFixture(t *testing.T) {
	data, err := os.ReadFile(fixturePath("minimal_topology_v1.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	topology, err := DecodeTopology(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if topology.RunID != "run-minimal-1" || topology.Tick != 1200 {
		t.Fatalf("unexpected topology: %+v", topology)
	}
	if len(topology.Synapses) != 2 || topology.Synapses[1].Conductive {
		t.Fatalf("unexpected synapses: %+v", topology.Synapses)
	}
}

func TestRunSummaryCodecRoundTrip(t *testing.T) {
	input := model.RunSummary{
		VersionedRecord: Stamp(),
		RunID:           "run-1",
		Seed:            99,
		Ticks:           5000,
		Resets:          2,
		RewardSum:       400,
		PenaltySum:      180,
		FoodEaten:       6,
		DangerHit:       1,
		StartedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:      time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}

	encoded, err := EncodeRunSummary(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRunSummary(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, input) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", decoded, input)
	}
}

func TestTickSnapshotCodecRoundTrip(t *testing.T) {
	input := model.TickSnapshot{
		VersionedRecord: Stamp(),
		RunID:           "run-1",
		Tick:            7,
		Reward:          true,
		RewardSum:       3,
		World:           model.WorldState{Agent: 15, Target: 3, Type: 2, Distance: 12},
		Neurons:         []model.NeuronState{{ID: 4, Potential: 1, Spiked: false}},
		Synapses:        []model.SynapseState{{Source: 6, Target: 30, Confidence: 2, Conductive: true}},
	}

	encoded, err := EncodeTickSnapshot(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeTickSnapshot(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, input) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", decoded, input)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	input := model.TickSnapshot{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion + 1, CodecVersion: CurrentCodecVersion},
		RunID:           "run-1",
	}
	encoded, err := EncodeTickSnapshot(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeTickSnapshot(encoded); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}

	summary := model.RunSummary{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion + 1},
		RunID:           "run-1",
	}
	encoded, err = EncodeRunSummary(summary)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRunSummary(encoded); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

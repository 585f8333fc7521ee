package telemetry

import (
	"dendrion/internal/model"
	"dendrion/internal/nn"
	"dendrion/internal/scape"
	"dendrion/internal/storage"
)

// Signals carries the per-tick learning signals and their running totals
// alongside the snapshot.
type Signals struct {
	Reward     bool
	Penalty    bool
	RewardSum  int
	PenaltySum int
	FoodTime   int
	DangerTime int
}

// Snapshot flattens the network and world into the wire record for one
// tick. Synapses are listed in source-then-insertion order, which is stable
// across ticks because rewires happen in place.
func Snapshot(runID string, tick int, net *nn.Network, world scape.Summary, sig Signals) model.TickSnapshot {
	snap := model.TickSnapshot{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		Tick:            tick,
		Reward:          sig.Reward,
		Penalty:         sig.Penalty,
		RewardSum:       sig.RewardSum,
		PenaltySum:      sig.PenaltySum,
		FoodTime:        sig.FoodTime,
		DangerTime:      sig.DangerTime,
		World: model.WorldState{
			Agent:    world.Agent,
			Target:   world.Target,
			Type:     int(world.TargetType),
			Food:     world.FoodEaten,
			Danger:   world.DangerHit,
			Distance: world.Distance,
		},
		Neurons:  make([]model.NeuronState, len(net.Neurons)),
		Synapses: synapseStates(net),
	}
	for i := range net.Neurons {
		n := &net.Neurons[i]
		snap.Neurons[i] = model.NeuronState{
			ID:        n.Index,
			Potential: n.Potential,
			Spiked:    n.Spiked,
		}
	}
	return snap
}

// Topology captures the current wiring as a standalone record, typically
// at the end of a run.
func Topology(runID string, tick int, net *nn.Network) model.TopologyDump {
	return model.TopologyDump{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		Tick:            tick,
		Synapses:        synapseStates(net),
	}
}

func synapseStates(net *nn.Network) []model.SynapseState {
	var out []model.SynapseState
	for source := range net.Out {
		for i := range net.Out[source] {
			syn := &net.Out[source][i]
			out = append(out, model.SynapseState{
				Source:      source,
				Target:      syn.Target,
				Confidence:  syn.Confidence,
				Conductive:  syn.Conductive,
				Highlighted: syn.Highlighted,
			})
		}
	}
	return out
}

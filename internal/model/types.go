package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// TickSnapshot is the self-contained per-tick telemetry record: the full
// observable state of the network and its world after one simulation tick.
type TickSnapshot struct {
	VersionedRecord
	RunID      string         `json:"run_id,omitempty"`
	Tick       int            `json:"t"`
	Reward     bool           `json:"reward"`
	Penalty    bool           `json:"penalty"`
	RewardSum  int            `json:"reward_sum"`
	PenaltySum int            `json:"penalty_sum"`
	FoodTime   int            `json:"food_time"`
	DangerTime int            `json:"danger_time"`
	World      WorldState     `json:"world"`
	Neurons    []NeuronState  `json:"neurons"`
	Synapses   []SynapseState `json:"synapses"`
}

// WorldState summarizes the environment geometry for visualization.
type WorldState struct {
	Agent    int `json:"agent"`
	Target   int `json:"target"`
	Type     int `json:"type"`
	Food     int `json:"food"`
	Danger   int `json:"danger"`
	Distance int `json:"dist"`
}

type NeuronState struct {
	ID        int  `json:"id"`
	Potential int  `json:"v"`
	Spiked    bool `json:"s"`
}

type SynapseState struct {
	Source      int  `json:"s"`
	Target      int  `json:"t"`
	Confidence  int  `json:"c"`
	Conductive  bool `json:"a"`
	Highlighted bool `json:"b"`
}

// RunSummary records the outcome of one simulation run for later inspection.
type RunSummary struct {
	VersionedRecord
	RunID      string    `json:"run_id"`
	Seed       int64     `json:"seed"`
	Ticks      int       `json:"ticks"`
	Resets     int       `json:"resets"`
	RewardSum  int       `json:"reward_sum"`
	PenaltySum int       `json:"penalty_sum"`
	FoodEaten  int       `json:"food_eaten"`
	DangerHit  int       `json:"danger_hit"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TopologyDump is the final wiring of a run: every synapse with its learned
// confidence, keyed by the run that produced it.
type TopologyDump struct {
	VersionedRecord
	RunID    string         `json:"run_id"`
	Tick     int            `json:"tick"`
	Synapses []SynapseState `json:"synapses"`
}

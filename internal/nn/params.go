package nn

import "fmt"

// DecayPolicy selects how membrane potentials decay back toward rest.
// One policy applies network-wide; the two are not equivalent.
type DecayPolicy string

const (
	// DecayPerNeuron throttles decay per neuron: a neuron that saw no input
	// and did not spike decrements a private countdown, and loses one unit
	// of potential only when the countdown expires.
	DecayPerNeuron DecayPolicy = "per_neuron"
	// DecayGlobalHalving halves every potential once per GlobalDecayPeriod
	// ticks, regardless of per-neuron activity.
	DecayGlobalHalving DecayPolicy = "global_halving"
)

// PenaltyPolicy selects what a penalty signal does to a pending LTD
// eligibility. The reference rule discards it: penalty only ever depresses
// through the LTP trace.
type PenaltyPolicy string

const (
	PenaltyDiscardLTD PenaltyPolicy = "discard_ltd"
	PenaltyAllowLTD   PenaltyPolicy = "allow_ltd"
)

// Params holds every integer constant of the network. All dynamics are total
// functions of these values; there is no floating-point state.
type Params struct {
	// Neuron dynamics.
	VThresh             int         `json:"v_thresh" yaml:"v_thresh"`
	VRest               int         `json:"v_rest" yaml:"v_rest"`
	RefractoryPeriod    int         `json:"refractory_period" yaml:"refractory_period"`
	MembraneDecayPeriod int         `json:"membrane_decay_period" yaml:"membrane_decay_period"`
	Decay               DecayPolicy `json:"decay" yaml:"decay"`
	GlobalDecayPeriod   int         `json:"global_decay_period" yaml:"global_decay_period"`

	// Synapse / R-STDP dynamics.
	ConfidenceMax          int           `json:"confidence_max" yaml:"confidence_max"`
	ConfidenceThr          int           `json:"confidence_thr" yaml:"confidence_thr"`
	SpikeTraceWindow       int           `json:"spike_trace_window" yaml:"spike_trace_window"`
	EligibilityTraceWindow int           `json:"eligibility_trace_window" yaml:"eligibility_trace_window"`
	ConfidenceLeakPeriod   int           `json:"confidence_leak_period" yaml:"confidence_leak_period"`
	Penalty                PenaltyPolicy `json:"penalty" yaml:"penalty"`
	// GateInertia > 0 enables reward/penalty acceptor gating: after a gated
	// confidence change the opposite signal is suppressed on that synapse for
	// this many ticks.
	GateInertia int `json:"gate_inertia" yaml:"gate_inertia"`

	// Structural pruning. 0 disables pruning entirely.
	PrunePeriod int `json:"prune_period" yaml:"prune_period"`

	// Topology.
	NumSensors         int     `json:"num_sensors" yaml:"num_sensors"`
	NumMotors          int     `json:"num_motors" yaml:"num_motors"`
	NumHidden          int     `json:"num_hidden" yaml:"num_hidden"`
	SensorFanOut       int     `json:"sensor_fan_out" yaml:"sensor_fan_out"`
	MotorFanIn         int     `json:"motor_fan_in" yaml:"motor_fan_in"`
	ConnectionDensity  float64 `json:"connection_density" yaml:"connection_density"`
	ConfidenceInitLow  int     `json:"confidence_init_low" yaml:"confidence_init_low"`
	ConfidenceInitHigh int     `json:"confidence_init_high" yaml:"confidence_init_high"`

	// Causal trace.
	HistoryDepth int `json:"history_depth" yaml:"history_depth"`
	TraceDepth   int `json:"trace_depth" yaml:"trace_depth"`
}

func DefaultParams() Params {
	return Params{
		VThresh:             2,
		VRest:               0,
		RefractoryPeriod:    1,
		MembraneDecayPeriod: 750,
		Decay:               DecayPerNeuron,
		GlobalDecayPeriod:   750,

		ConfidenceMax:          5,
		ConfidenceThr:          1,
		SpikeTraceWindow:       10,
		EligibilityTraceWindow: 1000,
		ConfidenceLeakPeriod:   5300,
		Penalty:                PenaltyDiscardLTD,
		GateInertia:            0,

		PrunePeriod: 0,

		NumSensors:         4,
		NumMotors:          2,
		NumHidden:          30,
		SensorFanOut:       3,
		MotorFanIn:         3,
		ConnectionDensity:  0.1,
		ConfidenceInitLow:  1,
		ConfidenceInitHigh: 5,

		HistoryDepth: 32,
		TraceDepth:   32,
	}
}

// Size is the total neuron count: sensors, then motors, then hidden.
func (p Params) Size() int {
	return p.NumSensors + p.NumMotors + p.NumHidden
}

// HiddenStart is the index of the first hidden neuron.
func (p Params) HiddenStart() int {
	return p.NumSensors + p.NumMotors
}

// MotorIndex returns the neuron index of motor m.
func (p Params) MotorIndex(m int) int {
	return p.NumSensors + m
}

func (p Params) validate() error {
	if p.NumSensors <= 0 || p.NumMotors <= 0 || p.NumHidden <= 0 {
		return fmt.Errorf("sensor, motor and hidden counts must be > 0")
	}
	if p.VThresh <= p.VRest {
		return fmt.Errorf("spike threshold must exceed rest potential")
	}
	if p.ConfidenceMax < p.ConfidenceThr || p.ConfidenceThr < 0 {
		return fmt.Errorf("confidence bounds are inconsistent: max=%d thr=%d", p.ConfidenceMax, p.ConfidenceThr)
	}
	if p.ConfidenceInitLow > p.ConfidenceInitHigh || p.ConfidenceInitLow < 0 || p.ConfidenceInitHigh > p.ConfidenceMax {
		return fmt.Errorf("initial confidence range [%d,%d] outside [0,%d]", p.ConfidenceInitLow, p.ConfidenceInitHigh, p.ConfidenceMax)
	}
	if p.ConnectionDensity < 0 || p.ConnectionDensity > 1 {
		return fmt.Errorf("connection density must be in [0,1]: %g", p.ConnectionDensity)
	}
	if p.HistoryDepth <= 0 {
		return fmt.Errorf("history depth must be > 0")
	}
	if p.TraceDepth <= 0 || p.TraceDepth > p.HistoryDepth {
		return fmt.Errorf("trace depth must be in [1,%d]: %d", p.HistoryDepth, p.TraceDepth)
	}
	switch p.Decay {
	case DecayPerNeuron:
		if p.MembraneDecayPeriod <= 0 {
			return fmt.Errorf("membrane decay period must be > 0")
		}
	case DecayGlobalHalving:
		if p.GlobalDecayPeriod <= 0 {
			return fmt.Errorf("global decay period must be > 0")
		}
	default:
		return fmt.Errorf("unsupported decay policy: %s", p.Decay)
	}
	switch p.Penalty {
	case PenaltyDiscardLTD, PenaltyAllowLTD:
	default:
		return fmt.Errorf("unsupported penalty policy: %s", p.Penalty)
	}
	if p.SensorFanOut <= 0 || p.MotorFanIn <= 0 {
		return fmt.Errorf("sensor fan-out and motor fan-in must be > 0")
	}
	fixed := p.sensorBlockCount()*p.SensorFanOut + p.NumMotors*p.MotorFanIn
	if fixed > p.NumHidden {
		return fmt.Errorf("fixed wiring needs %d hidden neurons, have %d", fixed, p.NumHidden)
	}
	return nil
}

// sensorBlockCount is the number of sensors that get hard-wired fan-out
// blocks: every second sensor, matching the paired left/right sensor layout
// where only one side of each pair is wired.
func (p Params) sensorBlockCount() int {
	return (p.NumSensors + 1) / 2
}

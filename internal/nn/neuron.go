package nn

// contribution records that a synapse delivered input to a neuron on some
// tick: the source neuron index and the synapse's position in the source's
// outgoing list. Used exclusively by the causal tracer, never by learning.
type contribution struct {
	source int
	syn    int
}

// historyRing is a fixed-depth ring over past ticks. Slot 0 is the most
// recently pushed tick; the oldest slot is overwritten on every push.
type historyRing struct {
	contribs [][]contribution
	spikes   []bool
	head     int
}

func newHistoryRing(depth int) historyRing {
	return historyRing{
		contribs: make([][]contribution, depth),
		spikes:   make([]bool, depth),
	}
}

func (r *historyRing) push(contribs []contribution, spiked bool) {
	r.head--
	if r.head < 0 {
		r.head = len(r.spikes) - 1
	}
	r.contribs[r.head] = append(r.contribs[r.head][:0], contribs...)
	r.spikes[r.head] = spiked
}

func (r *historyRing) at(depth int) []contribution {
	return r.contribs[(r.head+depth)%len(r.contribs)]
}

func (r *historyRing) spikedAt(depth int) bool {
	return r.spikes[(r.head+depth)%len(r.spikes)]
}

// Neuron is a binary-threshold integrate-and-fire unit with strictly
// integer-valued state.
type Neuron struct {
	Index      int
	Potential  int
	Refractory int
	Spiked     bool

	// pending accumulates synaptic input delivered this tick; it is
	// integrated at the start of the next tick and then cleared.
	pending   int
	leakTimer int

	// contribNow collects this tick's deliveries; the history shift at the
	// end of the tick pushes it into the ring.
	contribNow []contribution
	history    historyRing
}

func newNeuron(index int, p Params) Neuron {
	return Neuron{
		Index:     index,
		Potential: p.VRest,
		leakTimer: p.MembraneDecayPeriod,
		history:   newHistoryRing(p.HistoryDepth),
	}
}

// update advances the neuron by one tick. drive is the external input for
// this tick: any positive value contributes one full threshold of potential,
// so externally driven neurons fire immediately unless refractory.
func (n *Neuron) update(drive int, p Params) {
	n.Spiked = false

	if n.Refractory > 0 {
		// Inert during refraction: pending input is discarded, not deferred.
		n.Refractory--
		n.Potential = p.VRest
		n.pending = 0
		n.leakTimer = p.MembraneDecayPeriod
		return
	}

	active := n.pending > 0 || drive > 0

	n.Potential += n.pending
	if drive > 0 {
		n.Potential += p.VThresh
	}
	n.pending = 0

	if n.Potential >= p.VThresh {
		n.Potential = p.VRest
		n.Spiked = true
		n.Refractory = p.RefractoryPeriod
	}

	if p.Decay != DecayPerNeuron {
		return
	}
	switch {
	case active || n.Spiked:
		n.leakTimer = p.MembraneDecayPeriod
	case n.Potential > p.VRest:
		// Throttled leak: at most one unit per decay period.
		n.leakTimer--
		if n.leakTimer <= 0 {
			n.Potential--
			n.leakTimer = p.MembraneDecayPeriod
		}
	default:
		n.leakTimer = p.MembraneDecayPeriod
	}
}

package nn

import (
	"fmt"
	"math/rand"
)

// Network owns all neurons and synapses and advances them one discrete tick
// at a time. Neurons and synapses are arena-indexed: neurons are never
// removed and synapses are rewired in place, so indices stay stable for the
// lifetime of a run.
type Network struct {
	Params  Params
	Neurons []Neuron
	// Out maps each source neuron to its outgoing synapses.
	Out  [][]Synapse
	Tick int

	// Structural constraint sets, fixed at build time. First-layer neurons
	// are targets of sensor edges only; pre-motor neurons source the fixed
	// motor edges only.
	firstLayer []bool
	preMotor   []bool
	// incoming counts edges per target, maintained across rewires so pruning
	// can protect a pre-motor neuron's last incoming edge.
	incoming []int

	rng *rand.Rand
}

// NewNetwork builds a network with the fixed sensor/motor wiring plus a
// randomly sampled hidden graph drawn from rng. The rng is retained for
// structural pruning.
func NewNetwork(p Params, rng *rand.Rand) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("rng is required")
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	size := p.Size()
	net := &Network{
		Params:     p,
		Neurons:    make([]Neuron, size),
		Out:        make([][]Synapse, size),
		firstLayer: make([]bool, size),
		preMotor:   make([]bool, size),
		incoming:   make([]int, size),
		rng:        rng,
	}
	for i := range net.Neurons {
		net.Neurons[i] = newNeuron(i, p)
	}
	net.connect()
	return net, nil
}

// Step executes one tick in the fixed phase order: neuron update, spike
// propagation and synapse-state update, periodic structural pruning, causal
// trace from spiking motors, history shift. drive supplies external input
// per neuron index (sensor bits plus any background activity); entries
// beyond its length read as zero.
func (net *Network) Step(drive []int, reward, penalty bool) {
	p := net.Params
	net.Tick++

	for i := range net.Out {
		for j := range net.Out[i] {
			net.Out[i][j].Highlighted = false
		}
	}

	// Phase 1: membrane dynamics.
	for i := range net.Neurons {
		d := 0
		if i < len(drive) {
			d = drive[i]
		}
		net.Neurons[i].update(d, p)
	}
	if p.Decay == DecayGlobalHalving && net.Tick%p.GlobalDecayPeriod == 0 {
		for i := range net.Neurons {
			net.Neurons[i].Potential >>= 1
		}
	}

	// Phase 2: propagation and plasticity. The pruning scan is read-only;
	// stalest selection is deterministic in (source, index) order.
	staleSrc, staleIdx, staleAge := -1, -1, -1
	for i := range net.Out {
		srcSpiked := net.Neurons[i].Spiked
		for j := range net.Out[i] {
			syn := &net.Out[i][j]
			if srcSpiked && syn.Conductive {
				tgt := &net.Neurons[syn.Target]
				tgt.pending++
				tgt.contribNow = append(tgt.contribNow, contribution{source: i, syn: j})
			}
			if !syn.Plastic {
				continue
			}
			syn.sincePotentiation++
			syn.stepPlasticity(srcSpiked, net.Neurons[syn.Target].Spiked, reward, penalty, p)
			if syn.sincePotentiation > staleAge {
				staleSrc, staleIdx, staleAge = i, j, syn.sincePotentiation
			}
		}
	}

	// Phase 3: structural pruning, at most one rewrite per pruning tick.
	if p.PrunePeriod > 0 && net.Tick%p.PrunePeriod == 0 && staleSrc >= 0 {
		net.prune(staleSrc, staleIdx)
	}

	// Phase 4: causal trace reads the pre-shift history layout.
	for m := 0; m < p.NumMotors; m++ {
		idx := p.MotorIndex(m)
		if net.Neurons[idx].Spiked {
			net.traceFrom(idx)
		}
	}

	// Phase 5: history shift. Oldest slot dropped, this tick written to
	// slot 0, live accumulator cleared.
	for i := range net.Neurons {
		n := &net.Neurons[i]
		n.history.push(n.contribNow, n.Spiked)
		n.contribNow = n.contribNow[:0]
	}
}

// MotorCommand reports the tick's motor output. Simultaneous spikes on both
// motors cancel to no movement.
func (net *Network) MotorCommand() (left, right bool) {
	left = net.Neurons[net.Params.MotorIndex(0)].Spiked
	right = net.Neurons[net.Params.MotorIndex(1)].Spiked
	if left && right {
		return false, false
	}
	return left, right
}

// hasEdge reports whether source already has an outgoing synapse to target.
func (net *Network) hasEdge(source, target int) bool {
	for i := range net.Out[source] {
		if net.Out[source][i].Target == target {
			return true
		}
	}
	return false
}

// addEdge appends a synapse and keeps the incoming-edge counts in sync.
// A duplicate (source, target) pair indicates a builder bug and corrupts
// the topology, so it is fatal.
func (net *Network) addEdge(source, target, confidence int, plastic bool) {
	if net.hasEdge(source, target) {
		panic(fmt.Sprintf("nn: duplicate edge %d->%d", source, target))
	}
	net.Out[source] = append(net.Out[source], newSynapse(target, confidence, plastic, net.Params))
	net.incoming[target]++
}

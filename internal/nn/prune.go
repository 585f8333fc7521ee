package nn

// prune re-points the least-recently-reinforced plastic synapse at a new
// random legal target and resets its plastic state in place. Constraints are
// enforced constructively: no duplicate pair, no structurally forbidden
// target, and a pre-motor neuron never loses its last incoming edge. If the
// synapse's current target is last-edge-protected the synapse is reset on
// its current target instead of being rewired; if no legal target exists the
// cycle is skipped.
func (net *Network) prune(source, idx int) {
	syn := &net.Out[source][idx]
	if !syn.Plastic {
		return
	}

	if net.preMotor[syn.Target] && net.incoming[syn.Target] <= 1 {
		syn.resetPlastic(net.Params)
		return
	}

	target, ok := net.randomLegalTarget(source)
	if !ok {
		return
	}

	net.incoming[syn.Target]--
	syn.Target = target
	net.incoming[target]++
	syn.resetPlastic(net.Params)
}

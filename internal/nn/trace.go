package nn

// traceFrom walks backward from a spiking motor neuron and highlights every
// synapse that contributed, directly or through a chain of consecutive-tick
// spikes, to the observed spike. Depth d of a neuron's history ring holds
// the deliveries from d+1 ticks ago, so a spike observed now traces through
// slot 0 (the inputs integrated this tick), then slot 1 for sources that
// themselves spiked at slot 0, and so on. Visualization only.
//
// The walk is an explicit work list with a per-depth visited set, so it
// terminates on cyclic topologies, and it is bounded by TraceDepth; chains
// older than the bound are simply not traced.
func (net *Network) traceFrom(motor int) {
	size := len(net.Neurons)
	type item struct {
		neuron int
		depth  int
	}
	visited := make(map[int]struct{})
	stack := []item{{neuron: motor, depth: 0}}
	visited[motor] = struct{}{}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, c := range net.Neurons[it.neuron].history.at(it.depth) {
			net.Out[c.source][c.syn].Highlighted = true
			next := it.depth + 1
			if next >= net.Params.TraceDepth {
				continue
			}
			// Follow the source only if it spiked on the tick the history
			// entry refers to.
			if !net.Neurons[c.source].history.spikedAt(it.depth) {
				continue
			}
			key := next*size + c.source
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			stack = append(stack, item{neuron: c.source, depth: next})
		}
	}
}

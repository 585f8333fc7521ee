package nn

// connect builds the fixed sensor/motor wiring and samples the plastic
// hidden graph. Layout: sensors [0, NumSensors), motors [NumSensors,
// NumSensors+NumMotors), hidden the rest.
//
// Fixed wiring, always at ConfidenceMax and never plastic:
//   - every second sensor fans out to its own block of SensorFanOut hidden
//     neurons at the front of the hidden range (the first layer);
//   - each motor is fed by its own block of MotorFanIn hidden neurons at the
//     back of the hidden range (the pre-motor layer).
//
// Plastic edges are sampled at ConnectionDensity between hidden neurons,
// never sourcing from a pre-motor neuron and never targeting a first-layer
// neuron, with no self-loops and no duplicate pairs. The builder then
// guarantees every pre-motor neuron at least one incoming plastic edge and
// every first-layer neuron at least one outgoing plastic edge, so the
// pruning constraints hold from tick zero.
func (net *Network) connect() {
	p := net.Params
	size := p.Size()
	hiddenStart := p.HiddenStart()

	// Sensor fan-out blocks.
	for b := 0; b < p.sensorBlockCount(); b++ {
		sensor := 2 * b
		for k := 0; k < p.SensorFanOut; k++ {
			target := hiddenStart + b*p.SensorFanOut + k
			net.firstLayer[target] = true
			net.addEdge(sensor, target, p.ConfidenceMax, false)
		}
	}

	// Pre-motor fan-in blocks.
	for m := 0; m < p.NumMotors; m++ {
		motor := p.MotorIndex(m)
		for k := 0; k < p.MotorFanIn; k++ {
			source := size - (p.NumMotors-m)*p.MotorFanIn + k
			net.preMotor[source] = true
			net.addEdge(source, motor, p.ConfidenceMax, false)
		}
	}

	// Random hidden graph.
	for i := hiddenStart; i < size; i++ {
		if net.preMotor[i] {
			continue
		}
		for j := hiddenStart; j < size; j++ {
			if i == j || net.firstLayer[j] {
				continue
			}
			if net.rng.Float64() < p.ConnectionDensity {
				net.addEdge(i, j, net.initialConfidence(), true)
			}
		}
	}

	// Constructive guarantees for the constrained layers.
	for t := hiddenStart; t < size; t++ {
		if net.preMotor[t] && net.incoming[t] == 0 {
			if src, ok := net.randomLegalSource(t); ok {
				net.addEdge(src, t, net.initialConfidence(), true)
			}
		}
	}
	for f := hiddenStart; f < size; f++ {
		if net.firstLayer[f] && len(net.Out[f]) == 0 {
			if tgt, ok := net.randomLegalTarget(f); ok {
				net.addEdge(f, tgt, net.initialConfidence(), true)
			}
		}
	}
}

func (net *Network) initialConfidence() int {
	p := net.Params
	return p.ConfidenceInitLow + net.rng.Intn(p.ConfidenceInitHigh-p.ConfidenceInitLow+1)
}

// legalTargets lists the hidden neurons a plastic synapse from source may
// point at: no self-loop, no first-layer target, no duplicate pair.
func (net *Network) legalTargets(source int) []int {
	p := net.Params
	targets := make([]int, 0, p.NumHidden)
	for t := p.HiddenStart(); t < p.Size(); t++ {
		if t == source || net.firstLayer[t] || net.hasEdge(source, t) {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

func (net *Network) randomLegalTarget(source int) (int, bool) {
	targets := net.legalTargets(source)
	if len(targets) == 0 {
		return 0, false
	}
	return targets[net.rng.Intn(len(targets))], true
}

// randomLegalSource picks a hidden, non-pre-motor source for a plastic edge
// onto target, avoiding self-loops and duplicates.
func (net *Network) randomLegalSource(target int) (int, bool) {
	p := net.Params
	sources := make([]int, 0, p.NumHidden)
	for s := p.HiddenStart(); s < p.Size(); s++ {
		if s == target || net.preMotor[s] || net.hasEdge(s, target) {
			continue
		}
		sources = append(sources, s)
	}
	if len(sources) == 0 {
		return 0, false
	}
	return sources[net.rng.Intn(len(sources))], true
}

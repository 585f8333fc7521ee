package nn

import (
	"math/rand"
	"testing"
)

// testNetwork builds an unwired network so tests can lay edges by hand.
// Layout follows Params: sensors first, then motors, then hidden.
func testNetwork(t *testing.T, p Params) *Network {
	t.Helper()
	size := p.Size()
	net := &Network{
		Params:     p,
		Neurons:    make([]Neuron, size),
		Out:        make([][]Synapse, size),
		firstLayer: make([]bool, size),
		preMotor:   make([]bool, size),
		incoming:   make([]int, size),
		rng:        rand.New(rand.NewSource(1)),
	}
	for i := range net.Neurons {
		net.Neurons[i] = newNeuron(i, p)
	}
	return net
}

// scenarioParams: sensor 0, motor 1, hidden 2 and 3.
func scenarioParams() Params {
	p := DefaultParams()
	p.NumSensors = 1
	p.NumMotors = 1
	p.NumHidden = 2
	return p
}

func TestSingleSynapseDeliversOneUnit(t *testing.T) {
	p := scenarioParams()
	net := testNetwork(t, p)
	net.addEdge(2, 3, p.ConfidenceThr, true) // exactly at threshold: conductive

	drive := make([]int, p.Size())
	drive[2] = 1
	net.Step(drive, false, false)

	if !net.Neurons[2].Spiked {
		t.Fatal("source did not spike")
	}
	// Delivered this tick, integrated next tick.
	if net.Neurons[3].pending != 1 {
		t.Fatalf("pending input: got=%d want=1", net.Neurons[3].pending)
	}

	net.Step(nil, false, false)
	if net.Neurons[3].Potential != 1 {
		t.Fatalf("potential after integration: got=%d want=1", net.Neurons[3].Potential)
	}
}

func TestNonConductiveSynapseDeliversNothing(t *testing.T) {
	p := scenarioParams()
	net := testNetwork(t, p)
	net.addEdge(2, 3, 0, true) // below threshold

	drive := make([]int, p.Size())
	drive[2] = 1
	net.Step(drive, false, false)

	if net.Neurons[3].pending != 0 {
		t.Fatalf("non-conductive synapse delivered input: %d", net.Neurons[3].pending)
	}
}

func TestMotorCommandCancelsOnSimultaneousSpikes(t *testing.T) {
	p := DefaultParams()
	net := testNetwork(t, p)

	net.Neurons[p.MotorIndex(0)].Spiked = true
	net.Neurons[p.MotorIndex(1)].Spiked = true
	if l, r := net.MotorCommand(); l || r {
		t.Fatalf("simultaneous spikes must cancel: left=%v right=%v", l, r)
	}

	net.Neurons[p.MotorIndex(1)].Spiked = false
	if l, r := net.MotorCommand(); !l || r {
		t.Fatalf("single motor spike lost: left=%v right=%v", l, r)
	}
}

func TestDuplicateEdgePanics(t *testing.T) {
	p := scenarioParams()
	net := testNetwork(t, p)
	net.addEdge(2, 3, 1, true)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate edge")
		}
	}()
	net.addEdge(2, 3, 1, true)
}

// Long mixed run: the conductive flag must always equal the threshold
// comparison and confidence must never leave its bounds, no matter how
// reward, penalty, leak, and pruning interleave.
func TestConfidenceInvariantsUnderLoad(t *testing.T) {
	p := DefaultParams()
	p.ConfidenceLeakPeriod = 40
	p.EligibilityTraceWindow = 25
	p.PrunePeriod = 17
	rng := rand.New(rand.NewSource(7))

	net, err := NewNetwork(p, rng)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	drive := make([]int, p.Size())
	for tick := 0; tick < 3000; tick++ {
		for i := range drive {
			drive[i] = 0
		}
		drive[rng.Intn(p.NumSensors)] = 1
		if tick%3 == 0 {
			drive[p.HiddenStart()+rng.Intn(p.NumHidden)] = 1
		}
		net.Step(drive, rng.Intn(4) == 0, rng.Intn(4) == 1)

		for i := range net.Out {
			for j := range net.Out[i] {
				syn := &net.Out[i][j]
				if syn.Confidence < 0 || syn.Confidence > p.ConfidenceMax {
					t.Fatalf("tick %d: confidence out of range: %d->%d c=%d", tick, i, syn.Target, syn.Confidence)
				}
				if syn.Conductive != (syn.Confidence >= p.ConfidenceThr) {
					t.Fatalf("tick %d: conductive flag stale: %d->%d c=%d", tick, i, syn.Target, syn.Confidence)
				}
			}
		}
	}
}

func TestFixedSynapsesNeverChange(t *testing.T) {
	p := DefaultParams()
	p.ConfidenceLeakPeriod = 10
	rng := rand.New(rand.NewSource(3))

	net, err := NewNetwork(p, rng)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	drive := make([]int, p.Size())
	for tick := 0; tick < 500; tick++ {
		drive[0], drive[2] = 1, 1
		net.Step(drive, tick%2 == 0, tick%2 == 1)
	}

	for i := range net.Out {
		for j := range net.Out[i] {
			syn := &net.Out[i][j]
			if syn.Plastic {
				continue
			}
			if syn.Confidence != p.ConfidenceMax || !syn.Conductive {
				t.Fatalf("fixed synapse %d->%d mutated: c=%d", i, syn.Target, syn.Confidence)
			}
			if syn.ltpTimer != 0 || syn.ltdTimer != 0 || syn.eligibleLTP || syn.eligibleLTD {
				t.Fatalf("fixed synapse %d->%d carries trace state", i, syn.Target)
			}
		}
	}
}

package nn

// Synapse is a directed plastic edge. It is never freed: structural pruning
// re-points Target and resets the plastic fields in place, so the (source,
// index) pair stays a stable handle for the lifetime of the run.
type Synapse struct {
	Target     int
	Confidence int
	// Conductive is derived state, recomputed on every confidence change:
	// Confidence >= ConfidenceThr.
	Conductive bool
	// Plastic is false for the fixed sensor-input and motor-output edges,
	// which never learn, leak, or get pruned.
	Plastic bool
	// Highlighted marks the synapse as part of the current tick's causal
	// trace. Visualization only; cleared at the start of every tick.
	Highlighted bool

	// Short spike traces: armed on pre (ltp) / post (ltd) spikes.
	ltpTimer int
	ltdTimer int

	// Eligibility flags set by correlated pre/post timing, each with its own
	// expiry countdown, consumed by a later reward or penalty signal.
	eligibleLTP  bool
	eligibleLTD  bool
	eligLTPTimer int
	eligLTDTimer int

	// Slow confidence leak countdown; halves confidence on expiry.
	leakTimer int

	// Acceptor gating (only consulted when Params.GateInertia > 0): a gated
	// confidence change suppresses the opposite signal for the inertia
	// window, so reward/penalty oscillation cannot cancel a fresh update.
	rewardAcceptor  bool
	penaltyAcceptor bool
	rewardInertia   int
	penaltyInertia  int

	// Ticks since the last reward-gated potentiation attempt; ranks pruning
	// candidates. Reset on attempt regardless of whether confidence moved.
	sincePotentiation int
}

func newSynapse(target, confidence int, plastic bool, p Params) Synapse {
	s := Synapse{
		Target:          target,
		Plastic:         plastic,
		leakTimer:       p.ConfidenceLeakPeriod,
		rewardAcceptor:  true,
		penaltyAcceptor: true,
	}
	s.setConfidence(confidence, p)
	return s
}

// setConfidence clamps to [0, ConfidenceMax] and keeps Conductive in sync.
func (s *Synapse) setConfidence(v int, p Params) {
	if v < 0 {
		v = 0
	}
	if v > p.ConfidenceMax {
		v = p.ConfidenceMax
	}
	s.Confidence = v
	s.Conductive = v >= p.ConfidenceThr
}

// resetPlastic restores a rewired synapse to its initial learning state:
// minimum confidence, no traces, no eligibility, permissive acceptors.
func (s *Synapse) resetPlastic(p Params) {
	s.setConfidence(0, p)
	s.ltpTimer = 0
	s.ltdTimer = 0
	s.eligibleLTP = false
	s.eligibleLTD = false
	s.eligLTPTimer = 0
	s.eligLTDTimer = 0
	s.leakTimer = p.ConfidenceLeakPeriod
	s.rewardAcceptor = true
	s.penaltyAcceptor = true
	s.rewardInertia = 0
	s.penaltyInertia = 0
	s.sincePotentiation = 0
}

// stepPlasticity advances one plastic synapse by one tick, given whether its
// source and target spiked this tick and the current reward/penalty gates.
// The order is fixed: trace decay, eligibility expiry, trace (re)arming and
// pairing, gated learning, slow leak.
func (s *Synapse) stepPlasticity(srcSpiked, tgtSpiked, reward, penalty bool, p Params) {
	if s.ltpTimer > 0 {
		s.ltpTimer--
	}
	if s.ltdTimer > 0 {
		s.ltdTimer--
	}

	if s.eligLTPTimer > 0 {
		s.eligLTPTimer--
		if s.eligLTPTimer == 0 {
			s.eligibleLTP = false
		}
	}
	if s.eligLTDTimer > 0 {
		s.eligLTDTimer--
		if s.eligLTDTimer == 0 {
			s.eligibleLTD = false
		}
	}

	if p.GateInertia > 0 {
		if s.rewardInertia > 0 {
			s.rewardInertia--
			if s.rewardInertia == 0 {
				s.rewardAcceptor = true
			}
		}
		if s.penaltyInertia > 0 {
			s.penaltyInertia--
			if s.penaltyInertia == 0 {
				s.penaltyAcceptor = true
			}
		}
	}

	if srcSpiked {
		s.ltpTimer = p.SpikeTraceWindow
		if s.ltdTimer > 0 {
			// Pre fired shortly after post: depression signal.
			s.eligibleLTD = true
			s.eligLTDTimer = p.EligibilityTraceWindow
		}
	}
	if tgtSpiked {
		s.ltdTimer = p.SpikeTraceWindow
		if s.ltpTimer > 0 {
			// Pre fired shortly before post: potentiation signal.
			s.eligibleLTP = true
			s.eligLTPTimer = p.EligibilityTraceWindow
		}
	}

	switch {
	case reward && s.acceptsReward(p):
		s.applyReward(p)
	case penalty && s.acceptsPenalty(p):
		s.applyPenalty(p)
	}

	// Slow leak runs continuously, independent of traces and eligibility.
	if s.leakTimer > 0 {
		s.leakTimer--
	}
	if s.leakTimer == 0 {
		s.setConfidence(s.Confidence>>1, p)
		s.leakTimer = p.ConfidenceLeakPeriod
	}
}

func (s *Synapse) acceptsReward(p Params) bool {
	return p.GateInertia == 0 || s.rewardAcceptor
}

func (s *Synapse) acceptsPenalty(p Params) bool {
	return p.GateInertia == 0 || s.penaltyAcceptor
}

func (s *Synapse) applyReward(p Params) {
	if s.eligibleLTP {
		// A potentiation attempt counts even when confidence is pinned at max.
		s.sincePotentiation = 0
		if s.Confidence < p.ConfidenceMax {
			s.setConfidence(s.Confidence+1, p)
			s.eligibleLTP = false
			s.eligLTPTimer = 0
			s.leakTimer = p.ConfidenceLeakPeriod
			s.suppressPenalty(p)
			return
		}
	}
	// Depression only when potentiation did not fire this tick.
	if s.eligibleLTD && s.Confidence > 0 {
		s.setConfidence(s.Confidence-1, p)
		s.eligibleLTD = false
		s.eligLTDTimer = 0
		s.leakTimer = p.ConfidenceLeakPeriod
		s.suppressPenalty(p)
	}
}

func (s *Synapse) applyPenalty(p Params) {
	if s.eligibleLTP && s.Confidence > 0 {
		s.setConfidence(s.Confidence-1, p)
		s.eligibleLTP = false
		s.eligLTPTimer = 0
		s.leakTimer = p.ConfidenceLeakPeriod
		s.suppressReward(p)
		return
	}
	if !s.eligibleLTD {
		return
	}
	switch p.Penalty {
	case PenaltyAllowLTD:
		if s.Confidence > 0 {
			s.setConfidence(s.Confidence-1, p)
			s.leakTimer = p.ConfidenceLeakPeriod
			s.suppressReward(p)
		}
		s.eligibleLTD = false
		s.eligLTDTimer = 0
	default:
		// Penalty never independently depresses via the LTD trace: the
		// pending eligibility is discarded without effect.
		s.eligibleLTD = false
		s.eligLTDTimer = 0
	}
}

func (s *Synapse) suppressPenalty(p Params) {
	if p.GateInertia > 0 {
		s.penaltyAcceptor = false
		s.penaltyInertia = p.GateInertia
	}
}

func (s *Synapse) suppressReward(p Params) {
	if p.GateInertia > 0 {
		s.rewardAcceptor = false
		s.rewardInertia = p.GateInertia
	}
}

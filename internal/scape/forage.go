package scape

import (
	"fmt"
	"math/rand"
)

const (
	// Targets live between these bounds, in ticks.
	targetLifetimeMin = 3000
	targetLifetimeMax = 5000

	// SensorCount: food-left, food-right, danger-left, danger-right.
	SensorCount = 4
)

// Forage is a one-dimensional foraging/avoidance world. A single target
// (food or danger) spawns to the agent's left with a bounded lifetime; the
// agent earns reward for closing on food or retreating from danger, and
// penalty for the opposite. Contact consumes the interaction and recenters
// the agent, with the contact outcome overriding the distance signal.
type Forage struct {
	size       int
	agent      int
	target     int
	targetType TargetType
	lifetime   int
	foodEaten  int
	dangerHit  int
	rng        *rand.Rand
}

func NewForage(size int, rng *rand.Rand) (*Forage, error) {
	if size < 4 {
		return nil, fmt.Errorf("world size must be >= 4: %d", size)
	}
	if rng == nil {
		return nil, fmt.Errorf("rng is required")
	}
	return &Forage{
		size:  size,
		agent: size / 2,
		rng:   rng,
	}, nil
}

func (w *Forage) Name() string {
	return "forage"
}

// Sensors is one-hot per category and side: an active food target left of
// the agent lights sensor 0, right lights 1; danger uses sensors 2 and 3.
func (w *Forage) Sensors() []int {
	sensors := make([]int, SensorCount)
	if w.targetType == TargetNone {
		return sensors
	}
	isLeft := w.target < w.agent
	base := 0
	if w.targetType == TargetDanger {
		base = 2
	}
	if isLeft {
		sensors[base] = 1
	} else {
		sensors[base+1] = 1
	}
	return sensors
}

func (w *Forage) Update(moveLeft, moveRight bool) (reward, penalty bool) {
	if w.lifetime <= 0 {
		w.spawnTarget()
	}

	prevDist := -1
	if w.targetType != TargetNone {
		prevDist = abs(w.agent - w.target)
	} else {
		// No target: drift back toward the middle.
		mid := w.size / 2
		switch {
		case w.agent < mid:
			w.agent++
		case w.agent > mid:
			w.agent--
		}
	}

	if moveLeft {
		w.agent--
	}
	if moveRight {
		w.agent++
	}

	if w.targetType != TargetNone {
		dist := abs(w.agent - w.target)

		switch w.targetType {
		case TargetFood:
			if dist < prevDist {
				reward = true
			} else if dist > prevDist {
				penalty = true
			}
		case TargetDanger:
			if dist > prevDist {
				reward = true
			} else if dist < prevDist {
				penalty = true
			}
		}

		if dist == 0 {
			// Contact outcome overrides the distance signal.
			if w.targetType == TargetFood {
				w.foodEaten++
				reward, penalty = true, false
			} else {
				w.dangerHit++
				reward, penalty = false, true
			}
			// Recenter without removing the target.
			w.agent = w.size / 2
		}
	}

	if w.lifetime > 0 {
		w.lifetime--
		if w.lifetime <= 0 {
			w.targetType = TargetNone
		}
	}

	return reward, penalty
}

func (w *Forage) Summary() Summary {
	dist := 0
	if w.targetType != TargetNone {
		dist = abs(w.agent - w.target)
	}
	return Summary{
		Agent:      w.agent,
		Target:     w.target,
		TargetType: w.targetType,
		FoodEaten:  w.foodEaten,
		DangerHit:  w.dangerHit,
		Distance:   dist,
	}
}

// spawnTarget rolls food, danger, or an empty interval with equal weight,
// recenters the agent, and places any target strictly to the agent's left.
func (w *Forage) spawnTarget() {
	w.lifetime = targetLifetimeMin + w.rng.Intn(targetLifetimeMax-targetLifetimeMin+1)
	w.agent = w.size / 2

	switch w.rng.Intn(3) {
	case 0:
		w.targetType = TargetFood
	case 1:
		w.targetType = TargetDanger
	default:
		w.targetType = TargetNone
		return
	}
	w.target = w.rng.Intn(w.agent)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package scape

// Scripted replays a fixed sequence of sensor vectors and learning signals
// and records the motor commands it receives. It exists for deterministic
// tests of the tick loop; once the script is exhausted it reads as an empty
// world.
type Scripted struct {
	steps []ScriptStep
	pos   int
	moves []MotorMove
}

type ScriptStep struct {
	Sensors []int
	Reward  bool
	Penalty bool
	World   Summary
}

type MotorMove struct {
	Left  bool
	Right bool
}

func NewScripted(steps ...ScriptStep) *Scripted {
	return &Scripted{steps: steps}
}

func (s *Scripted) Name() string { return "scripted" }

func (s *Scripted) Sensors() []int {
	if s.pos < len(s.steps) {
		return s.steps[s.pos].Sensors
	}
	return nil
}

func (s *Scripted) Update(moveLeft, moveRight bool) (reward, penalty bool) {
	s.moves = append(s.moves, MotorMove{Left: moveLeft, Right: moveRight})
	if s.pos >= len(s.steps) {
		return false, false
	}
	step := s.steps[s.pos]
	s.pos++
	return step.Reward, step.Penalty
}

// Summary reports the current step's world view, sticking to the final
// step's view once the script runs out.
func (s *Scripted) Summary() Summary {
	if s.pos < len(s.steps) {
		return s.steps[s.pos].World
	}
	if n := len(s.steps); n > 0 {
		return s.steps[n-1].World
	}
	return Summary{}
}

// Moves returns every motor command received so far, in order.
func (s *Scripted) Moves() []MotorMove { return s.moves }

func (s *Scripted) Exhausted() bool { return s.pos >= len(s.steps) }

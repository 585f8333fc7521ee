package scape

// TargetType identifies what, if anything, currently occupies the world.
type TargetType int

const (
	TargetNone TargetType = iota
	TargetFood
	TargetDanger
)

// Environment turns agent/target geometry into sensor bits and converts the
// network's motor output into reward/penalty flags. Implementations are
// single-threaded collaborators of the tick loop.
type Environment interface {
	Name() string
	// Sensors returns a fixed-length 0/1 vector, one entry per sensor
	// category and side.
	Sensors() []int
	// Update applies the tick's motor command and reports the resulting
	// reward and penalty signals, consumed as next tick's learning gates.
	Update(moveLeft, moveRight bool) (reward, penalty bool)
	Summary() Summary
}

// Summary is the environment's per-tick telemetry view.
type Summary struct {
	Agent      int
	Target     int
	TargetType TargetType
	FoodEaten  int
	DangerHit  int
	Distance   int
}

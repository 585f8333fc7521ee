package platform

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"dendrion/internal/model"
	"dendrion/internal/nn"
	"dendrion/internal/scape"
	"dendrion/internal/storage"
	"dendrion/internal/telemetry"
)

// BuildFunc constructs a fresh network and environment for one run segment.
// It is called once at startup and again after every reset, with a seed
// derived from the run seed and the reset count.
type BuildFunc func(seed int64) (*nn.Network, scape.Environment, error)

type Config struct {
	RunID   string
	Seed    int64
	Build   BuildFunc
	Control *Control
	Emitter telemetry.Emitter

	// Background activity drives RandomActivityCount random hidden neurons
	// every RandomActivityPeriod ticks. Zero period disables it.
	RandomActivityPeriod int
	RandomActivityCount  int

	// MaxTicks bounds the total tick count across resets. Zero means the
	// run ends only on a stop command or context cancellation.
	MaxTicks int

	// PollInterval is the wait granularity while paused or delayed.
	PollInterval time.Duration

	// OnSegmentEnd runs when a segment finishes, before any rebuild. The
	// network is still intact, so callers can dump its topology.
	OnSegmentEnd func(ctx context.Context, net *nn.Network, tick int) error

	Logf func(format string, args ...any)
}

const defaultPollInterval = 100 * time.Millisecond

// Run drives the simulation until stopped: emit the current state, wait out
// pause and speed control, gather sensor and background drive, step the
// network, apply motor output to the world, and feed the resulting reward
// and penalty into the next tick. The first tick always runs with the
// reward signal asserted so early activity has something to learn from.
// A reset rebuilds the network and world in place and continues the run.
func Run(ctx context.Context, cfg Config) (model.RunSummary, error) {
	if cfg.Build == nil {
		return model.RunSummary{}, errors.New("build func is required")
	}
	if cfg.Control == nil {
		return model.RunSummary{}, errors.New("control is required")
	}
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	ctrl := cfg.Control
	summary := model.RunSummary{
		VersionedRecord: storage.Stamp(),
		RunID:           cfg.RunID,
		Seed:            cfg.Seed,
		StartedAt:       time.Now(),
	}

	resets := 0
	totalTicks := 0

	for ctrl.Running() {
		seed := cfg.Seed + int64(resets)
		net, env, err := cfg.Build(seed)
		if err != nil {
			summary.FinishedAt = time.Now()
			return summary, err
		}
		logf("run %s: segment started (seed=%d reset=%d)", cfg.RunID, seed, resets)

		rng := rand.New(rand.NewSource(seed))
		reward, penalty := true, false
		rewardSum, penaltySum := 0, 0
		foodTime, dangerTime := 0, 0

		tick := 0
		for ; ctrl.Running() && !ctrl.ResetPending(); tick++ {
			if cfg.MaxTicks > 0 && totalTicks >= cfg.MaxTicks {
				ctrl.Stop()
				break
			}

			if cfg.Emitter != nil {
				snap := telemetry.Snapshot(cfg.RunID, tick, net, env.Summary(), telemetry.Signals{
					Reward:     reward,
					Penalty:    penalty,
					RewardSum:  rewardSum,
					PenaltySum: penaltySum,
					FoodTime:   foodTime,
					DangerTime: dangerTime,
				})
				if err := cfg.Emitter.Emit(ctx, snap); err != nil {
					logf("run %s: emit tick %d: %v", cfg.RunID, tick, err)
				}
			}

			if err := waitTick(ctx, ctrl, poll); err != nil {
				finishSegment(ctx, cfg, &summary, net, env, tick, totalTicks, rewardSum, penaltySum)
				return summary, err
			}
			if !ctrl.Running() || ctrl.ResetPending() {
				break
			}

			drive := make([]int, net.Params.Size())
			for i, v := range env.Sensors() {
				if i < len(drive) {
					drive[i] = v
				}
			}
			if cfg.RandomActivityPeriod > 0 && tick%cfg.RandomActivityPeriod == 0 {
				span := net.Params.Size() - net.Params.HiddenStart()
				for i := 0; i < cfg.RandomActivityCount; i++ {
					drive[net.Params.HiddenStart()+rng.Intn(span)]++
				}
			}

			net.Step(drive, reward, penalty)

			left, right := net.MotorCommand()
			reward, penalty = env.Update(left, right)
			if reward {
				rewardSum++
			}
			if penalty {
				penaltySum++
			}
			switch env.Summary().TargetType {
			case scape.TargetFood:
				foodTime++
			case scape.TargetDanger:
				dangerTime++
			}
			totalTicks++
		}

		finishSegment(ctx, cfg, &summary, net, env, tick, totalTicks, rewardSum, penaltySum)
		if ctrl.TakeReset() && ctrl.Running() {
			resets++
			summary.Resets = resets
			logf("run %s: reset", cfg.RunID)
			continue
		}
		break
	}

	summary.FinishedAt = time.Now()
	logf("run %s: finished after %d ticks (%d resets)", cfg.RunID, summary.Ticks, summary.Resets)
	return summary, nil
}

func finishSegment(ctx context.Context, cfg Config, summary *model.RunSummary, net *nn.Network, env scape.Environment, tick, totalTicks, rewardSum, penaltySum int) {
	summary.Ticks = totalTicks
	summary.RewardSum += rewardSum
	summary.PenaltySum += penaltySum
	world := env.Summary()
	summary.FoodEaten += world.FoodEaten
	summary.DangerHit += world.DangerHit

	if cfg.OnSegmentEnd != nil {
		if err := cfg.OnSegmentEnd(ctx, net, tick); err != nil && cfg.Logf != nil {
			cfg.Logf("run %s: segment end hook: %v", cfg.RunID, err)
		}
	}
}

// waitTick blocks for the pause state and the configured delay, polling
// control so stop and reset cut the wait short. A tick that was paused
// skips its delay once resumed.
func waitTick(ctx context.Context, ctrl *Control, poll time.Duration) error {
	paused := false
	for ctrl.Paused() {
		if !ctrl.Running() || ctrl.ResetPending() {
			return nil
		}
		paused = true
		if err := sleepCtx(ctx, poll); err != nil {
			return err
		}
	}
	if paused {
		return nil
	}
	remaining := ctrl.Delay()
	for remaining > 0 {
		if !ctrl.Running() || ctrl.ResetPending() {
			return nil
		}
		step := poll
		if step > remaining {
			step = remaining
		}
		if err := sleepCtx(ctx, step); err != nil {
			return err
		}
		remaining -= step
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

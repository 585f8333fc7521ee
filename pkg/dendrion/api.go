package dendrion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"dendrion/internal/model"
	"dendrion/internal/nn"
	"dendrion/internal/platform"
	"dendrion/internal/scape"
	"dendrion/internal/storage"
	"dendrion/internal/telemetry"
)

const (
	defaultDBPath    = "dendrion.db"
	defaultWorldSize = 30

	// Background drive defaults: one random hidden neuron every five ticks.
	defaultRandomActivityPeriod = 5
	defaultRandomActivityCount  = 1
)

type Options struct {
	StoreKind string
	DBPath    string
}

// Client is the embedding surface for the simulator: it owns the store and
// wires networks, worlds, run control and telemetry together per run.
type Client struct {
	store storage.Store
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{store: store}, nil
}

// NewWithStore wraps an already-constructed store, mainly for tests and
// embedders with their own store lifecycle.
func NewWithStore(store storage.Store) (*Client, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Reset drops all persisted run data.
func (c *Client) Reset(ctx context.Context) error {
	resetter, ok := c.store.(storage.Resetter)
	if !ok {
		return fmt.Errorf("store does not support reset")
	}
	return resetter.Reset(ctx)
}

type RunRequest struct {
	RunID string
	Seed  int64

	// Net configures the network; the zero value selects DefaultParams.
	Net nn.Params

	WorldSize int

	// MaxTicks bounds the run; zero runs until a stop command.
	MaxTicks int

	// StartPaused holds the run until a resume command, matching the
	// interactive visualization flow.
	StartPaused bool

	// DelayMS is the inter-tick delay in milliseconds. Zero runs at full
	// speed; negative keeps the control's current setting.
	DelayMS int

	// RandomActivityPeriod and RandomActivityCount shape the background
	// drive. Zero selects the defaults; a negative period disables it.
	RandomActivityPeriod int
	RandomActivityCount  int

	// SampleEvery persists every nth snapshot to the store. Zero disables
	// snapshot persistence.
	SampleEvery int

	// Output receives the per-tick JSON stream. Nil disables streaming.
	Output     io.Writer
	IndentJSON bool

	// Control overrides the run control, letting a caller drive pause,
	// resume, reset and speed from its own listener.
	Control *platform.Control

	Logf func(format string, args ...any)
}

// Run executes one simulation run to completion and persists its summary
// and final topology.
func (c *Client) Run(ctx context.Context, req RunRequest) (model.RunSummary, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	if req.Net.NumSensors == 0 {
		req.Net = nn.DefaultParams()
	}
	if req.WorldSize <= 0 {
		req.WorldSize = defaultWorldSize
	}
	if req.Net.NumSensors != scape.SensorCount {
		return model.RunSummary{}, fmt.Errorf("network wants %d sensors, world provides %d", req.Net.NumSensors, scape.SensorCount)
	}
	period := req.RandomActivityPeriod
	if period == 0 {
		period = defaultRandomActivityPeriod
	}
	count := req.RandomActivityCount
	if count == 0 {
		count = defaultRandomActivityCount
	}

	ctrl := req.Control
	if ctrl == nil {
		ctrl = platform.NewControl()
	}
	if !req.StartPaused {
		ctrl.Resume()
	}
	if req.DelayMS >= 0 {
		ctrl.SetDelay(time.Duration(req.DelayMS) * time.Millisecond)
	}

	var emitters telemetry.MultiEmitter
	if req.Output != nil {
		emitters = append(emitters, telemetry.NewJSONEmitter(req.Output, req.IndentJSON))
	}
	if req.SampleEvery > 0 {
		emitters = append(emitters, telemetry.NewStoreSink(c.store, req.SampleEvery))
	}
	var emitter telemetry.Emitter
	if len(emitters) > 0 {
		emitter = emitters
	}

	build := func(seed int64) (*nn.Network, scape.Environment, error) {
		rng := rand.New(rand.NewSource(seed))
		net, err := nn.NewNetwork(req.Net, rng)
		if err != nil {
			return nil, nil, err
		}
		env, err := scape.NewForage(req.WorldSize, rng)
		if err != nil {
			return nil, nil, err
		}
		return net, env, nil
	}

	summary, runErr := platform.Run(ctx, platform.Config{
		RunID:                req.RunID,
		Seed:                 req.Seed,
		Build:                build,
		Control:              ctrl,
		Emitter:              emitter,
		RandomActivityPeriod: period,
		RandomActivityCount:  count,
		MaxTicks:             req.MaxTicks,
		Logf:                 req.Logf,
		OnSegmentEnd: func(ctx context.Context, net *nn.Network, tick int) error {
			return c.store.SaveTopology(ctx, telemetry.Topology(req.RunID, tick, net))
		},
	})

	if err := c.store.SaveRunSummary(ctx, summary); err != nil && runErr == nil {
		runErr = fmt.Errorf("save run summary: %w", err)
	}
	return summary, runErr
}

func (c *Client) Runs(ctx context.Context) ([]model.RunSummary, error) {
	return c.store.ListRunSummaries(ctx)
}

func (c *Client) RunSummary(ctx context.Context, runID string) (model.RunSummary, bool, error) {
	return c.store.GetRunSummary(ctx, runID)
}

func (c *Client) Snapshots(ctx context.Context, runID string) ([]model.TickSnapshot, error) {
	return c.store.GetTickSnapshots(ctx, runID)
}

func (c *Client) Topology(ctx context.Context, runID string) (model.TopologyDump, bool, error) {
	return c.store.GetTopology(ctx, runID)
}

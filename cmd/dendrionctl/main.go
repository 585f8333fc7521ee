package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"dendrion/internal/platform"
	"dendrion/internal/storage"
	api "dendrion/pkg/dendrion"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "snapshots":
		return runSnapshots(ctx, args[1:])
	case "summary":
		return runSummary(ctx, args[1:])
	case "topology":
		return runTopology(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config YAML path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	seed := fs.Int64("seed", 0, "rng seed (0 derives one from the clock)")
	maxTicks := fs.Int("max-ticks", 0, "total tick limit (0 runs until a stop command)")
	startPaused := fs.Bool("start-paused", true, "hold the run until a resume command on stdin")
	delayMS := fs.Int("delay-ms", 500, "inter-tick delay in milliseconds")
	worldSize := fs.Int("world-size", 0, "foraging world size (0 uses the default)")
	sampleEvery := fs.Int("sample-every", 0, "persist every nth snapshot (0 disables)")
	randomPeriod := fs.Int("random-activity-period", 0, "background drive period in ticks (0 uses the default, negative disables)")
	randomCount := fs.Int("random-activity-count", 0, "background drive neuron count per period (0 uses the default)")
	noStream := fs.Bool("no-stream", false, "suppress the per-tick JSON stream")
	verbose := fs.Bool("verbose", false, "log control and run events to stderr")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}

	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	if *configPath == "" || setFlags["run-id"] {
		req.RunID = *runID
	}
	if *configPath == "" || setFlags["seed"] {
		req.Seed = *seed
	}
	if *configPath == "" || setFlags["max-ticks"] {
		req.MaxTicks = *maxTicks
	}
	if *configPath == "" || setFlags["start-paused"] {
		req.StartPaused = *startPaused
	}
	if *configPath == "" || setFlags["delay-ms"] {
		req.DelayMS = *delayMS
	}
	if *configPath == "" || setFlags["world-size"] {
		req.WorldSize = *worldSize
	}
	if *configPath == "" || setFlags["sample-every"] {
		req.SampleEvery = *sampleEvery
	}
	if *configPath == "" || setFlags["random-activity-period"] {
		req.RandomActivityPeriod = *randomPeriod
	}
	if *configPath == "" || setFlags["random-activity-count"] {
		req.RandomActivityCount = *randomCount
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	logger := log.New(os.Stderr, "dendrionctl: ", log.LstdFlags)
	logf := func(string, ...any) {}
	if *verbose {
		logf = logger.Printf
	}

	// Control commands arrive on stdin so a frontend can drive the run.
	ctrl := platform.NewControl()
	go func() {
		if err := platform.Listen(os.Stdin, ctrl, logf); err != nil {
			logger.Printf("control listener: %v", err)
		}
	}()
	req.Control = ctrl

	if !*noStream {
		req.Output = os.Stdout
		req.IndentJSON = isatty.IsTerminal(os.Stdout.Fd())
	}
	req.Logf = logf

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "run_id=%s ticks=%s resets=%d reward_sum=%s penalty_sum=%s food=%d danger=%d\n",
		summary.RunID,
		humanize.Comma(int64(summary.Ticks)),
		summary.Resets,
		humanize.Comma(int64(summary.RewardSum)),
		humanize.Comma(int64(summary.PenaltySum)),
		summary.FoodEaten,
		summary.DangerHit,
	)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(runs) > *limit {
		runs = runs[len(runs)-*limit:]
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, r := range runs {
		started := "n/a"
		if !r.StartedAt.IsZero() {
			started = humanize.Time(r.StartedAt)
		}
		fmt.Printf("run_id=%s started=%s ticks=%s resets=%d reward_sum=%s penalty_sum=%s food=%d danger=%d\n",
			r.RunID,
			started,
			humanize.Comma(int64(r.Ticks)),
			r.Resets,
			humanize.Comma(int64(r.RewardSum)),
			humanize.Comma(int64(r.PenaltySum)),
			r.FoodEaten,
			r.DangerHit,
		)
	}
	return nil
}

func runSnapshots(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("snapshots", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	limit := fs.Int("limit", 0, "max snapshots to print (0 prints all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	snapshots, err := client.Snapshots(ctx, *runID)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}
	if *limit > 0 && len(snapshots) > *limit {
		snapshots = snapshots[:*limit]
	}

	enc := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		enc.SetIndent("", "  ")
	}
	for _, snap := range snapshots {
		if err := enc.Encode(snap); err != nil {
			return err
		}
	}
	return nil
}

func runSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	summary, ok, err := client.RunSummary(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", *runID)
	}

	fmt.Printf("run_id=%s seed=%d ticks=%s resets=%d reward_sum=%s penalty_sum=%s food=%d danger=%d duration=%s\n",
		summary.RunID,
		summary.Seed,
		humanize.Comma(int64(summary.Ticks)),
		summary.Resets,
		humanize.Comma(int64(summary.RewardSum)),
		humanize.Comma(int64(summary.PenaltySum)),
		summary.FoodEaten,
		summary.DangerHit,
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond),
	)
	return nil
}

func runTopology(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("topology", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dendrion.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run-id is required")
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	topology, ok, err := client.Topology(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("topology not found: %s", *runID)
	}

	enc := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(topology)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: dendrionctl <init|reset|run|runs|snapshots|summary|topology> [flags]", msg)
}

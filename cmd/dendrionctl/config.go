package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dendrion/internal/nn"
	api "dendrion/pkg/dendrion"
)

// runConfig mirrors RunRequest for YAML run configs. Pointer fields
// distinguish "absent" from an explicit zero so absent fields keep the
// interactive defaults.
type runConfig struct {
	RunID                string     `yaml:"run_id"`
	Seed                 int64      `yaml:"seed"`
	MaxTicks             int        `yaml:"max_ticks"`
	StartPaused          *bool      `yaml:"start_paused"`
	DelayMS              *int       `yaml:"delay_ms"`
	WorldSize            int        `yaml:"world_size"`
	SampleEvery          int        `yaml:"sample_every"`
	RandomActivityPeriod int        `yaml:"random_activity_period"`
	RandomActivityCount  int        `yaml:"random_activity_count"`
	Net                  *nn.Params `yaml:"net"`
}

func loadOrDefaultRunRequest(path string) (api.RunRequest, error) {
	req := api.RunRequest{StartPaused: true, DelayMS: 500}
	if path == "" {
		return req, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return api.RunRequest{}, err
	}

	// Seed the net section with defaults so a partial net config only
	// overrides what it names.
	params := nn.DefaultParams()
	cfg := runConfig{Net: &params}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return api.RunRequest{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	req.RunID = cfg.RunID
	req.Seed = cfg.Seed
	req.MaxTicks = cfg.MaxTicks
	req.WorldSize = cfg.WorldSize
	req.SampleEvery = cfg.SampleEvery
	req.RandomActivityPeriod = cfg.RandomActivityPeriod
	req.RandomActivityCount = cfg.RandomActivityCount
	req.Net = *cfg.Net
	if cfg.StartPaused != nil {
		req.StartPaused = *cfg.StartPaused
	}
	if cfg.DelayMS != nil {
		req.DelayMS = *cfg.DelayMS
	}
	return req, nil
}

// Command backproject locates an acoustic source by grid-search
// stacking of array waveforms.
//
// Usage:
//
//	backproject -config run.json -waveforms stations.json [flags]
//
// The config file describes the search grid, the candidate celerities,
// the stack method, and the optional preprocessing chain; the waveform
// file carries the station traces in the JSON interchange format.
//
// Examples:
//
//	backproject -config run.json -waveforms event.json
//	backproject -config run.json -waveforms event.json -db catalog.db
//	backproject -config run.json -waveforms event.json -workers 4
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arraykit/backproject/catalog"
	"github.com/arraykit/backproject/grid"
	"github.com/arraykit/backproject/process"
	"github.com/arraykit/backproject/stack"
	"github.com/arraykit/backproject/waveform"
)

// agcConfig is the JSON form of the optional gain-control stage.
type agcConfig struct {
	WinSec float64 `json:"win_sec"`
	Method string  `json:"method"`
}

// processConfig is the JSON form of the preprocessing chain. Zero
// values disable the corresponding stage.
type processConfig struct {
	FreqMin       float64    `json:"freq_min"`
	FreqMax       float64    `json:"freq_max"`
	Order         int        `json:"order,omitempty"`
	ZeroPhase     bool       `json:"zero_phase,omitempty"`
	TaperFraction float64    `json:"taper_fraction,omitempty"`
	Envelope      bool       `json:"envelope,omitempty"`
	SmoothSec     float64    `json:"smooth_sec,omitempty"`
	DecimateTo    float64    `json:"decimate_to,omitempty"`
	AGC           *agcConfig `json:"agc,omitempty"`
	Normalize     bool       `json:"normalize,omitempty"`
}

// runConfig is the top-level run description.
type runConfig struct {
	CenterLon   float64               `json:"center_lon"`
	CenterLat   float64               `json:"center_lat"`
	XRadius     float64               `json:"x_radius"`
	YRadius     float64               `json:"y_radius"`
	Spacing     float64               `json:"spacing"`
	Projected   bool                  `json:"projected,omitempty"`
	Celerities  []float64             `json:"celerities"`
	StackMethod string                `json:"stack_method"`
	Processing  *processConfig        `json:"processing,omitempty"`
	Channels    waveform.ChannelTable `json:"channels,omitempty"`
}

func loadConfig(path string) (*runConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg runConfig
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *processConfig) options() (process.Options, error) {
	opt := process.Options{
		FreqMin:       c.FreqMin,
		FreqMax:       c.FreqMax,
		Order:         c.Order,
		ZeroPhase:     c.ZeroPhase,
		TaperFraction: c.TaperFraction,
		Envelope:      c.Envelope,
		SmoothSec:     c.SmoothSec,
		DecimateTo:    c.DecimateTo,
		Normalize:     c.Normalize,
	}

	if c.AGC != nil {
		method, err := process.ParseAGCMethod(c.AGC.Method)
		if err != nil {
			return process.Options{}, err
		}
		opt.AGC = &process.AGCOptions{WinSec: c.AGC.WinSec, Method: method}
	}

	return opt, nil
}

func main() {
	configPath := flag.String("config", "", "run configuration file (JSON)")
	waveformPath := flag.String("waveforms", "", "station waveform file (JSON)")
	dbPath := flag.String("db", "", "optional SQLite catalog to record the run in")
	workers := flag.Int("workers", 0, "stacking worker count (0 = one per CPU)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: backproject -config run.json -waveforms stations.json [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Locates an acoustic source by grid-search stacking of array waveforms.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *configPath == "" || *waveformPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *configPath, *waveformPath, *dbPath, *workers); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, configPath, waveformPath, dbPath string, workers int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	method, err := stack.ParseMethod(cfg.StackMethod)
	if err != nil {
		return err
	}

	loader := waveform.Loader{Channels: cfg.Channels}
	set, err := loader.Load(waveformPath)
	if err != nil {
		return err
	}
	log.Info("waveforms loaded",
		"stations", len(set.Stations),
		"sample_rate", set.SampleRate(),
		"samples", set.NumSamples(),
		"start", set.Start())

	if cfg.Processing != nil {
		opt, err := cfg.Processing.options()
		if err != nil {
			return err
		}

		if set, err = process.Run(set, opt); err != nil {
			return err
		}
		log.Debug("preprocessing done",
			"sample_rate", set.SampleRate(),
			"samples", set.NumSamples())
	}

	g, err := grid.Build(grid.Config{
		CenterLon: cfg.CenterLon,
		CenterLat: cfg.CenterLat,
		XRadius:   cfg.XRadius,
		YRadius:   cfg.YRadius,
		Spacing:   cfg.Spacing,
		Projected: cfg.Projected,
	})
	if err != nil {
		return err
	}
	log.Info("grid built", "mode", g.Mode, "nx", g.Nx(), "ny", g.Ny(), "cells", g.NumCells())

	search := &stack.Search{Grid: g, Celerities: cfg.Celerities, Method: method, Workers: workers}

	started := time.Now()
	vol, err := search.Run(ctx, set)
	if err != nil {
		return err
	}

	_, _, nt, nc := vol.Dims()
	log.Info("stacking done",
		"elapsed", time.Since(started).Round(time.Millisecond),
		"hypotheses", g.NumCells()*nt*nc)

	est, err := stack.Locate(vol)
	if err != nil {
		return err
	}

	fmt.Printf("source:   %.5f, %.5f\n", est.Lon, est.Lat)
	fmt.Printf("time:     %s\n", est.Time.UTC().Format(time.RFC3339Nano))
	fmt.Printf("celerity: %.1f m/s\n", est.Celerity)
	fmt.Printf("value:    %g (%s stack)\n", est.Value, vol.Method())

	if dbPath == "" {
		return nil
	}

	db, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, vol, est)
	if err != nil {
		return err
	}
	log.Info("run catalogued", "db", dbPath, "run_id", id)

	return nil
}

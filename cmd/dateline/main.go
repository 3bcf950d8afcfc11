package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/dateline/internal/antimeridian"
	"github.com/woozymasta/dateline/internal/config"
	"github.com/woozymasta/dateline/internal/geo"
	"github.com/woozymasta/dateline/internal/logger"
	"github.com/woozymasta/dateline/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Policy      string   `short:"P" long:"policy"       env:"POLICY"       description:"Override correction policy for every layer" choice:"shift-unify" choice:"split-interpolate" choice:"split-partition"`
	Limit       []string `short:"l" long:"limit"        env:"LIMIT_LAYERS" description:"Limit processing to specific layer names"`
	MetricsFile string   `short:"m" long:"metrics-file" env:"METRICS_FILE" description:"Write Prometheus metrics to this textfile after the run"`
	Workers     int      `short:"p" long:"workers"      env:"WORKERS"      description:"Features normalized concurrently" default:"8"`
	Precision   int      `long:"precision"              env:"PRECISION"    description:"Significant digits kept in compact output (0 keeps all)"`
	Force       bool     `short:"f" long:"force"        description:"Force overwrite of existing files"`
	Compact     bool     `short:"C" long:"compact"      description:"Write compact GeoJSON"`
	Preview     bool     `short:"w" long:"preview"      description:"Render a WebP preview next to every layer"`
	Polygons    bool     `long:"polygons"               description:"Correct Polygon features too, not only MultiPolygons"`
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Policy != "" {
		p, err := antimeridian.ParsePolicy(opts.Policy)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid policy")
		}
		cfg.Policy = p
		for i := range cfg.Layers {
			cfg.Layers[i].Policy = ""
		}
	}

	if opts.Polygons {
		cfg.Polygons = true
	}

	if opts.Workers <= 0 {
		opts.Workers = processor.DefaultWorkers
	}

	precision := cfg.Precision
	if opts.Precision > 0 {
		precision = opts.Precision
	}

	layers, missing := cfg.Select(opts.Limit)
	for _, name := range missing {
		log.Error().
			Str("name", name).
			Msg("Layer specified in --limit not found in configuration")
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layers)).
		Str("policy", string(cfg.Policy)).
		Str("source", cfg.SourceDir).
		Str("output", cfg.OutputDir).
		Msg("Starting dateline correction")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := processor.NewMetrics()
	reports := processor.ProcessLayers(ctx, cfg, layers, processor.RunOptions{
		Encode: geo.EncodeOptions{
			Compact:   cfg.Compact || opts.Compact,
			Precision: precision,
		},
		Workers: opts.Workers,
		Force:   opts.Force,
		Preview: opts.Preview,
	}, metrics)

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			log.Error().Err(err).Str("path", opts.MetricsFile).Msg("Failed to write metrics")
		}
	}

	var total processor.Stats
	failed := 0
	for _, r := range reports {
		if r.Err != nil && !errors.Is(r.Err, processor.ErrLayerMissing) {
			failed++
		}
		total.Input += r.Stats.Input
		total.Output += r.Stats.Output
		total.Corrected += r.Stats.Corrected
		total.Split += r.Stats.Split
		total.Dropped += r.Stats.Dropped
	}

	log.Info().
		Int("layers", len(reports)).
		Int("layers_failed", failed).
		Int("features_in", total.Input).
		Int("features_out", total.Output).
		Int("fixed", total.Fixed()).
		Int("dropped", total.Dropped).
		Msg("Dateline correction finished")

	if ctx.Err() != nil || failed > 0 {
		os.Exit(1)
	}
}

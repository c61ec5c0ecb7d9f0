package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/awano27/new-ai-news-site/pkg/config"
	"github.com/awano27/new-ai-news-site/pkg/content"
	"github.com/awano27/new-ai-news-site/pkg/db"
	"github.com/awano27/new-ai-news-site/pkg/feed"
	"github.com/awano27/new-ai-news-site/pkg/pipeline"
	"github.com/awano27/new-ai-news-site/pkg/scoring"
	"github.com/awano27/new-ai-news-site/pkg/trust"
	"github.com/awano27/new-ai-news-site/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	lgr.Printf("[INFO] starting ainews version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Printf("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.New(ctx, db.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			lgr.Printf("[WARN] database close error: %v", err)
		}
	}()

	resolver := trust.NewResolver(cfg.TrustWeights())
	engine := scoring.NewEngine(resolver, scoring.WithWorkers(cfg.Schedule.MaxWorkers))

	feedParser := feed.NewParser(30*time.Second, cfg.Extraction.UserAgent)
	collector := feed.NewCollector(feedParser, cfg.DomainSources(), cfg.Schedule.MaxWorkers)

	var enricher pipeline.Enricher
	if cfg.Extraction.Enabled {
		enricher = content.NewExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
	}

	pl := pipeline.New(collector, enricher, engine, database, pipeline.Config{
		Interval:        time.Duration(cfg.Schedule.UpdateInterval) * time.Minute,
		MinItems:        cfg.Schedule.MinItems,
		KeyPoints:       cfg.Schedule.KeyPoints,
		MinSummaryRunes: cfg.Extraction.MinTextLength,
		Retention:       time.Duration(cfg.Schedule.RetentionDays) * 24 * time.Hour,
		MaxWorkers:      cfg.Schedule.MaxWorkers,
	})
	pl.Start(ctx)
	defer pl.Stop()

	generator := feed.NewGenerator(cfg.Server.BaseURL)
	srv := server.New(server.Config{Listen: cfg.Server.Listen, Timeout: cfg.Server.Timeout},
		database, generator, revision, opts.Debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

// Command being runs one pass over the enabled activities and exits.
//
// Configuration load failures are fatal; individual activity failures are
// logged and reflected in the exit summary but never abort the pass.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/digitalbeing/being/activities"
	"github.com/digitalbeing/being/config"
	"github.com/digitalbeing/being/logging"
	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/metrics"
	"github.com/digitalbeing/being/registry"
	"github.com/digitalbeing/being/runner"
)

type Args struct {
	ConfigPath string
}

func main() {
	if err := doMain(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func doMain() error {
	args := parseArgs()
	if args.ConfigPath == "" {
		return fmt.Errorf("-c or --config flag is required")
	}

	// Credentials may live in a local .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("being started", "config_path", args.ConfigPath)

	reg := registry.New(logger.Logger)
	if err := activities.RegisterAll(reg); err != nil {
		return fmt.Errorf("failed to register activities: %w", err)
	}
	if err := reg.LoadConstraints(cfg.Constraints.Path); err != nil {
		return fmt.Errorf("failed to load constraints: %w", err)
	}

	shared := memory.NewStore()
	if cfg.Memory.StateFile != "" {
		if err := shared.LoadFile(cfg.Memory.StateFile, logger.Logger); err != nil {
			return err
		}
	}

	var metricsReg metrics.Registry
	if cfg.Monitoring.VictoriaMetricsURL != "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("error getting hostname: %w", err)
		}
		metricsReg = metrics.NewPushRegistry(metrics.PushConfig{
			URL:      cfg.Monitoring.VictoriaMetricsURL,
			Prefix:   cfg.Monitoring.MetricsPrefix,
			Job:      cfg.Monitoring.JobName,
			Instance: hostname,
		})
	} else {
		// No push endpoint configured; metrics stay local to the process.
		scrapeReg, err := metrics.NewScrapeRegistry()
		if err != nil {
			return fmt.Errorf("failed to create metrics registry: %w", err)
		}
		metricsReg = scrapeReg
	}

	r, err := runner.New(logger.Logger, reg, shared, metricsReg,
		runner.WithTimeout(cfg.Runner.ActivityTimeout))
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	pass := r.RunPass(context.Background())

	if cfg.Memory.StateFile != "" {
		if err := shared.SaveFile(cfg.Memory.StateFile); err != nil {
			logger.Error("failed to snapshot shared memory", "error", err)
		}
	}

	logger.Info("being completed",
		"pass_id", pass.ID,
		"activities", len(pass.Executions),
		"failures", pass.Failures(),
	)
	return nil
}

func parseArgs() Args {
	configPath := flag.String("config", "", "Path to config file")
	configPathShort := flag.String("c", "", "Path to config file (shorthand)")
	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}
	return Args{ConfigPath: path}
}

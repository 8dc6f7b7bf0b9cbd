package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"holcal/internal/compile"
	"holcal/internal/config"
	appLog "holcal/internal/log"
	"holcal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath  string
	definitions string
	outputDir   string
	watch       bool
	serve       bool
	listen      string
	logLevel    string
}

func main() {
	flags := parseFlags()
	appLog.SetLevel(appLog.ParseLevel(flags.logLevel))
	appLog.Info("holcal starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override the config file when provided.
	if flags.definitions != "" {
		conf.Definitions = flags.definitions
	}
	if flags.outputDir != "" {
		conf.OutputDir = flags.outputDir
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"definitions", conf.Definitions,
		"output_dir", conf.OutputDir,
		"window", conf.StartYear,
		"window_end", conf.EndYear,
		"watch", flags.watch,
		"serve", flags.serve,
	)

	compiler := &compile.Compiler{Conf: conf}

	// Every mode starts with one full compile; a broken setup should fail
	// before anything is scheduled or served.
	if err := compiler.Run(); err != nil {
		appLog.Error("compile failed", err)
		os.Exit(1)
	}

	if !flags.watch && !flags.serve {
		appLog.Info("holcal done")
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.watch {
		sched := cron.New()
		_, err := sched.AddFunc(conf.RefreshCron, func() {
			if err := compiler.Run(); err != nil {
				appLog.Error("scheduled compile failed", err)
			}
		})
		if err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		appLog.Info("watch mode active", "refresh", conf.RefreshCron)
	}

	if flags.serve {
		if err := web.StartServer(ctx, conf); err != nil {
			appLog.Error("HTTP server failed", err)
			os.Exit(1)
		}
	} else {
		<-ctx.Done()
	}

	// Give the cron scheduler a moment to wind down.
	time.Sleep(100 * time.Millisecond)
	appLog.Info("holcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&cfg.definitions, "definitions", "", "Holiday definitions file (overrides config if set)")
	flag.StringVar(&cfg.outputDir, "output", "", "Output directory for .ics files (overrides config if set)")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and recompile on the refresh schedule")
	flag.BoolVar(&cfg.serve, "serve", false, "Serve the output directory over HTTP")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	return cfg
}

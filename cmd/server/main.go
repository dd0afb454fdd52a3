// Package main is the entry point for the fittrack server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool

	logLevelSet  bool
	logFormatSet bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)

	cfg := loadConfig(flags.configPath, logger)

	// The bootstrap logger only knows the flags; once the config file
	// is loaded its log section takes over, with explicit flags
	// keeping precedence.
	logger = configureLogger(flags, cfg, logger)
	defer func() { _ = logger.Sync() }()

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", observability.Error(err))
	}

	run(app, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("FITTRACK_CONFIG_PATH", ""),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("FITTRACK_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("FITTRACK_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	return cliFlags{
		configPath:   *configPath,
		logLevel:     *logLevel,
		logFormat:    *logFormat,
		showVersion:  *showVersion,
		logLevelSet:  explicit["log-level"],
		logFormatSet: explicit["log-format"],
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("fittrack version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// configureLogger rebuilds the logger from the loaded configuration.
// Explicitly passed log flags override the config file.
func configureLogger(flags cliFlags, cfg *config.Config, bootstrap observability.Logger) observability.Logger {
	logCfg := cfg.Log
	if flags.logLevelSet {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormatSet {
		logCfg.Format = flags.logFormat
	}

	logger, err := observability.NewLogger(logCfg.Observability())
	if err != nil {
		bootstrap.Warn("invalid log configuration, keeping bootstrap logger",
			observability.Error(err))
		return bootstrap
	}

	_ = bootstrap.Sync()
	return logger
}

// loadConfig loads and validates the configuration.
func loadConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting fittrack",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.String("backend_mode", cfg.Backend.EffectiveMode()),
		observability.String("addr", cfg.Server.Address),
	)

	return cfg
}

// run starts the servers and blocks until a shutdown signal arrives.
func run(app *application, configPath string, logger observability.Logger) {
	app.start()

	watcher := startConfigWatcher(app, configPath, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		app.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if watcher != nil {
		watcher.Stop()
	}

	app.shutdown(shutdownCtx)
	logger.Info("server stopped")
}

// startConfigWatcher starts a watcher that reapplies rate limit
// presets on config file changes. Without a config file there is
// nothing to watch.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	if configPath == "" {
		return nil
	}

	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration changed, reapplying rate limit presets")
		app.applyRateLimits(newCfg)
	}, config.WithWatcherLogger(logger), config.WithDebounce(250*time.Millisecond))

	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	watcher.Start()
	return watcher
}

package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"pyidx/internal/config"
	"pyidx/internal/discovery"
	"pyidx/internal/index"
	"pyidx/internal/logging"
	"pyidx/internal/paths"
	"pyidx/internal/policy"
	"pyidx/internal/project"
	"pyidx/internal/pyruntime"
)

var (
	setupOnce   sync.Once
	sharedSetup *cliSetup
	setupErr    error
)

// cliSetup bundles what every command needs: the project root it runs in
// plus the config and policy loaded from that root's data directory.
type cliSetup struct {
	root string
	cfg  *config.Config
	pol  *policy.Policy
}

// getSetup loads config and policy once per invocation, folding any
// pyproject [tool.pyidx] table into the policy. A missing or unreadable
// config falls back to defaults; an invalid policy is fatal because it
// gates the reflective deny list.
func getSetup(root string, logger *logging.Logger) (*cliSetup, error) {
	setupOnce.Do(func() {
		cfg, err := config.LoadConfig(root)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = config.DefaultConfig()
		}

		pol, err := policy.Load(paths.PolicyPath(root))
		if err != nil {
			setupErr = fmt.Errorf("loading policy: %w", err)
			return
		}
		if info, ok := project.Detect(root); ok {
			pol.ApplyOverrides(info.Overrides)
		}

		sharedSetup = &cliSetup{root: root, cfg: cfg, pol: pol}
	})

	return sharedSetup, setupErr
}

// mustGetSetup returns the shared setup or exits on error.
func mustGetSetup(root string, logger *logging.Logger) *cliSetup {
	s, err := getSetup(root, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

// findInterpreter resolves the configured interpreter. Commands degrade
// without one: source extraction still works, reflection does not.
func findInterpreter(s *cliSetup, logger *logging.Logger) *pyruntime.Interpreter {
	interp, err := pyruntime.Find(s.cfg.Interpreter.Path)
	if err != nil {
		logger.Warn("No usable interpreter; compiled and builtin modules will be skipped", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if ms := s.cfg.Interpreter.ProbeTimeoutMs; ms > 0 {
		interp.Timeout = time.Duration(ms) * time.Millisecond
	}
	return interp
}

// newEngine wires a discovery engine from the loaded setup. interp may be
// nil, which leaves reflective extraction disabled.
func newEngine(s *cliSetup, env discovery.Environment, interp *pyruntime.Interpreter) *discovery.Engine {
	var reflector discovery.ModuleReflector
	if interp != nil {
		reflector = pyruntime.NewReflector(interp)
	}
	return discovery.New(discovery.Config{
		Reflector:   reflector,
		Env:         env,
		Logger:      engineLogger(s),
		DenyModules: s.pol.DenyModules,
		IgnoreDirs:  s.pol.IgnoreDirs,
		MaxFileSize: int64(s.cfg.Scan.MaxFileSizeBytes),
	})
}

// engineLogger builds the logger the engine emits per-file diagnostics
// through, honoring the configured level rather than the output flag.
func engineLogger(s *cliSetup) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.ParseFormat(s.cfg.Logging.Format),
		Level:  logging.ParseLevel(s.cfg.Logging.Level),
	})
}

// resolveDBPath honors the config override, else the default location
// under the project data directory.
func resolveDBPath(root string, cfg *config.Config) string {
	if cfg.Index.Path != "" {
		return cfg.Index.Path
	}
	return paths.DBPath(root)
}

// mustOpenIndex opens the project index database or exits on error.
func mustOpenIndex(root string, cfg *config.Config, logger *logging.Logger) *index.DB {
	db, err := index.Open(resolveDBPath(root, cfg), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}
	return db
}

// requireIndexFile exits when no index database exists yet. Read-only
// commands never create one implicitly.
func requireIndexFile(root string, cfg *config.Config) {
	dbPath := resolveDBPath(root, cfg)
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: no index at %s (run 'pyidx index' first)\n", dbPath)
		os.Exit(1)
	}
}

// getProjectRoot returns the directory commands operate in.
func getProjectRoot() (string, error) {
	return os.Getwd()
}

// mustGetProjectRoot returns the project root or exits on error.
func mustGetProjectRoot() string {
	root, err := getProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger creates a logger with the specified format.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.InfoLevel,
	})
}

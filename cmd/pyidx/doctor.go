package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyidx/internal/config"
	pyerrors "pyidx/internal/errors"
	"pyidx/internal/index"
	"pyidx/internal/logging"
	"pyidx/internal/paths"
	"pyidx/internal/policy"
	"pyidx/internal/project"
	"pyidx/internal/pyast"
	"pyidx/internal/pyruntime"
)

var (
	doctorFormat string
	doctorCheck  string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose pyidx issues",
	Long: `Check the environment pyidx runs in: project layout, interpreter,
parser, index database, policy, and configuration.

Warnings describe degraded but working setups; failures block commands.

Examples:
  pyidx doctor
  pyidx doctor --check policy
  pyidx doctor --format json`,
	Args: cobra.NoArgs,
	Run:  runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "human", "Output format (json, human)")
	doctorCmd.Flags().StringVar(&doctorCheck, "check", "", "Run a single check (project, interpreter, parser, index, policy, config)")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) {
	logger := newLogger(doctorFormat)
	root := mustGetProjectRoot()
	ctx := newContext()

	cfg, cfgErr := config.LoadConfig(root)
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	// Lazy constructors: --check must not probe subsystems it was not asked about.
	all := []struct {
		name string
		fn   func() DoctorCheckCLI
	}{
		{"project", func() DoctorCheckCLI { return checkProject(root) }},
		{"interpreter", func() DoctorCheckCLI { return checkInterpreter(ctx, cfg) }},
		{"parser", checkParser},
		{"index", func() DoctorCheckCLI { return checkIndex(root, cfg, logger) }},
		{"policy", func() DoctorCheckCLI { return checkPolicy(root) }},
		{"config", func() DoctorCheckCLI { return checkConfig(cfgErr, cfg) }},
	}

	var checks []DoctorCheckCLI
	for _, c := range all {
		if doctorCheck != "" && c.name != doctorCheck {
			continue
		}
		checks = append(checks, c.fn())
	}
	if len(checks) == 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown check %q (available: project, interpreter, parser, index, policy, config)\n", doctorCheck)
		os.Exit(1)
	}

	healthy := true
	for _, c := range checks {
		if c.Status == "fail" {
			healthy = false
		}
	}

	cliResponse := &DoctorResponseCLI{
		Healthy: healthy,
		Checks:  checks,
	}

	output, err := FormatResponse(cliResponse, OutputFormat(doctorFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	if !healthy {
		os.Exit(1)
	}
}

func checkProject(root string) DoctorCheckCLI {
	info, ok := project.Detect(root)
	if !ok {
		return DoctorCheckCLI{
			Name:    "project",
			Status:  "warn",
			Message: "no project manifest found; the current directory is the scan root",
		}
	}
	return DoctorCheckCLI{
		Name:    "project",
		Status:  "pass",
		Message: fmt.Sprintf("%s (%s), scan root %s", info.Name, info.Manifest, info.ScanRoot()),
	}
}

func checkInterpreter(ctx context.Context, cfg *config.Config) DoctorCheckCLI {
	interp, err := pyruntime.Find(cfg.Interpreter.Path)
	if err != nil {
		return DoctorCheckCLI{
			Name:           "interpreter",
			Status:         "warn",
			Message:        "no usable interpreter; compiled and builtin modules cannot be indexed",
			SuggestedFixes: convertFixes(pyerrors.GetSuggestedFixes(pyerrors.InterpreterUnavailable)),
		}
	}

	version, err := interp.Version(ctx)
	if err != nil {
		return DoctorCheckCLI{
			Name:    "interpreter",
			Status:  "warn",
			Message: fmt.Sprintf("%s found but probing failed: %v", interp.Path, err),
		}
	}
	return DoctorCheckCLI{
		Name:    "interpreter",
		Status:  "pass",
		Message: fmt.Sprintf("Python %s at %s", version, interp.Path),
	}
}

func checkParser() DoctorCheckCLI {
	if !pyast.IsAvailable() {
		return DoctorCheckCLI{
			Name:    "parser",
			Status:  "warn",
			Message: "source extraction unavailable: binary built without cgo",
		}
	}
	return DoctorCheckCLI{
		Name:    "parser",
		Status:  "pass",
		Message: "tree-sitter Python parser compiled in",
	}
}

func checkIndex(root string, cfg *config.Config, logger *logging.Logger) DoctorCheckCLI {
	dbPath := resolveDBPath(root, cfg)
	if _, err := os.Stat(dbPath); err != nil {
		return DoctorCheckCLI{
			Name:    "index",
			Status:  "warn",
			Message: fmt.Sprintf("no index at %s", dbPath),
			SuggestedFixes: []FixActionCLI{{
				Type:        string(pyerrors.RunCommand),
				Command:     "pyidx index",
				Description: "Build the name index",
				Safe:        true,
			}},
		}
	}

	db, err := index.Open(dbPath, logger)
	if err != nil {
		return DoctorCheckCLI{
			Name:           "index",
			Status:         "fail",
			Message:        fmt.Sprintf("index unreadable: %v", err),
			SuggestedFixes: convertFixes(pyerrors.GetSuggestedFixes(pyerrors.IndexCorrupt)),
		}
	}
	defer db.Close()

	stats, err := db.GetStats()
	if err != nil {
		return DoctorCheckCLI{
			Name:           "index",
			Status:         "fail",
			Message:        fmt.Sprintf("index unreadable: %v", err),
			SuggestedFixes: convertFixes(pyerrors.GetSuggestedFixes(pyerrors.IndexCorrupt)),
		}
	}

	msg := fmt.Sprintf("%d names across %d packages", stats.Names, stats.Packages)
	if stats.LastScan != nil && !stats.LastScan.FinishedAt.IsZero() {
		msg += fmt.Sprintf(", last indexed %s", stats.LastScan.FinishedAt.Format("2006-01-02 15:04"))
	}
	return DoctorCheckCLI{
		Name:    "index",
		Status:  "pass",
		Message: msg,
	}
}

func checkPolicy(root string) DoctorCheckCLI {
	path := paths.PolicyPath(root)
	if _, err := policy.Load(path); err != nil {
		return DoctorCheckCLI{
			Name:    "policy",
			Status:  "fail",
			Message: err.Error(),
		}
	}
	if _, err := os.Stat(path); err != nil {
		return DoctorCheckCLI{
			Name:    "policy",
			Status:  "pass",
			Message: "no policy file; defaults apply",
		}
	}
	return DoctorCheckCLI{
		Name:    "policy",
		Status:  "pass",
		Message: fmt.Sprintf("policy loaded from %s", path),
	}
}

func checkConfig(loadErr error, cfg *config.Config) DoctorCheckCLI {
	if loadErr != nil {
		return DoctorCheckCLI{
			Name:    "config",
			Status:  "warn",
			Message: fmt.Sprintf("config unreadable, defaults apply: %v", loadErr),
		}
	}
	if err := cfg.Validate(); err != nil {
		return DoctorCheckCLI{
			Name:    "config",
			Status:  "fail",
			Message: err.Error(),
		}
	}
	return DoctorCheckCLI{
		Name:    "config",
		Status:  "pass",
		Message: "configuration valid",
	}
}

func convertFixes(fixes []pyerrors.FixAction) []FixActionCLI {
	out := make([]FixActionCLI, 0, len(fixes))
	for _, f := range fixes {
		out = append(out, FixActionCLI{
			Type:        string(f.Type),
			Command:     f.Command,
			Description: f.Description,
			Safe:        f.Safe,
		})
	}
	return out
}

// DoctorResponseCLI contains diagnostic results for CLI output
type DoctorResponseCLI struct {
	Healthy bool             `json:"healthy"`
	Checks  []DoctorCheckCLI `json:"checks"`
}

// DoctorCheckCLI represents a single diagnostic check
type DoctorCheckCLI struct {
	Name           string         `json:"name"`
	Status         string         `json:"status"` // "pass", "warn", "fail"
	Message        string         `json:"message"`
	SuggestedFixes []FixActionCLI `json:"suggestedFixes,omitempty"`
}

// FixActionCLI represents a suggested fix
type FixActionCLI struct {
	Type        string `json:"type"`
	Command     string `json:"command,omitempty"`
	Description string `json:"description"`
	Safe        bool   `json:"safe"`
}

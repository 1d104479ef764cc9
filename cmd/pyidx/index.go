package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pyidx/internal/discovery"
	"pyidx/internal/index"
	"pyidx/internal/logging"
	"pyidx/internal/paths"
	"pyidx/internal/pyruntime"
	"pyidx/internal/roots"
)

var (
	indexRebuild bool
	indexFormat  string
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Build or refresh the name index",
	Long: `Walk the project root and the interpreter's module search path, extract
every importable name, and store the results in the per-project index.

Re-running refreshes packages in place; single-file modules whose content
digest is unchanged are skipped. --rebuild drops every stored name and
file digest first.

Examples:
  pyidx index
  pyidx index ~/work/proj
  pyidx index --rebuild`,
	Args: cobra.MaximumNArgs(1),
	Run:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Drop stored names and re-index from scratch")
	indexCmd.Flags().StringVar(&indexFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(indexFormat)

	root := mustGetProjectRoot()
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		root = abs
	}
	s := mustGetSetup(root, logger)

	lock, err := index.AcquireLock(paths.DataDir(root))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer lock.Release()

	db := mustOpenIndex(root, s.cfg, logger)
	defer db.Close()

	if indexRebuild {
		if err := db.Reset(); err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting index: %v\n", err)
			os.Exit(1)
		}
	}

	interp := findInterpreter(s, logger)
	ctx := newContext()

	scanRoots, env := roots.Discover(ctx, roots.Project(root, s.pol.FollowSrcLayout), interp, logger)
	engine := newEngine(s, env, interp)

	scan, err := db.BeginScan(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording scan: %v\n", err)
		os.Exit(1)
	}

	run := &indexRun{
		s:      s,
		db:     db,
		engine: engine,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
	for _, r := range scanRoots {
		run.indexRoot(ctx, r)
	}
	run.indexBuiltins(ctx, interp)

	if err := db.FinishScan(scan.ID, run.packages, run.names); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording scan: %v\n", err)
		os.Exit(1)
	}

	cliRoots := make([]RootCLI, 0, len(scanRoots))
	for _, r := range scanRoots {
		cliRoots = append(cliRoots, RootCLI{Path: r.Path, Source: r.Source.String()})
	}

	cliResponse := &IndexResponseCLI{
		ScanID:     scan.ID,
		Root:       root,
		Roots:      cliRoots,
		Packages:   run.packages,
		Names:      run.names,
		DurationMs: time.Since(start).Milliseconds(),
	}

	output, err := FormatResponse(cliResponse, OutputFormat(indexFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// indexRun carries the state of one index pass.
type indexRun struct {
	s        *cliSetup
	db       *index.DB
	engine   *discovery.Engine
	logger   *logging.Logger
	seen     map[string]struct{}
	packages int64
	names    int64
}

// indexRoot indexes every package at the top level of one root. The first
// root claiming a package name wins; later roots never shadow it.
func (run *indexRun) indexRoot(ctx context.Context, r roots.Root) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		run.logger.Warn("Cannot read root", map[string]interface{}{
			"root":  r.Path,
			"error": err.Error(),
		})
		return
	}

	for _, entry := range entries {
		if run.ignored(entry.Name()) {
			continue
		}
		path := filepath.Join(r.Path, entry.Name())
		pkg, ptype, ok := discovery.Classify(path)
		if !ok {
			continue
		}
		if _, dup := run.seen[pkg]; dup {
			continue
		}
		run.indexPackage(ctx, path, pkg, ptype, r.Source)
	}
}

func (run *indexRun) ignored(name string) bool {
	for _, d := range run.s.pol.IgnoreDirs {
		if name == d {
			return true
		}
	}
	return false
}

func (run *indexRun) indexPackage(ctx context.Context, path, pkg string, ptype discovery.PackageType, origin discovery.Source) {
	digest := ""
	if ptype == discovery.PackageSingleFile {
		d, unchanged, err := run.db.FileUnchanged(path)
		if err == nil {
			if unchanged {
				run.seen[pkg] = struct{}{}
				return
			}
			digest = d
		}
	}

	src := origin
	names := run.engine.FindPackageNames(ctx, path, discovery.ScanOptions{
		Recursive:      true,
		IncludePrivate: run.s.pol.IncludePrivate,
		Origin:         &src,
	})

	if err := run.db.ReplacePackage(pkg, names); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing package %s: %v\n", pkg, err)
		os.Exit(1)
	}
	if digest != "" {
		if err := run.db.RecordFile(path, digest); err != nil {
			run.logger.Warn("Cannot record file digest", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}

	run.seen[pkg] = struct{}{}
	run.packages++
	run.names += int64(len(names))
}

// indexBuiltins records the interpreter's compiled-in modules. Their names
// come from reflection, so without an interpreter they are skipped.
func (run *indexRun) indexBuiltins(ctx context.Context, interp *pyruntime.Interpreter) {
	if interp == nil {
		return
	}
	builtins, err := interp.BuiltinModules(ctx)
	if err != nil {
		run.logger.Warn("Cannot list builtin modules", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, mod := range builtins {
		if _, dup := run.seen[mod]; dup {
			continue
		}
		names := run.engine.CompiledNames(ctx, mod, discovery.SourceBuiltin, run.s.pol.IncludePrivate)
		if len(names) == 0 {
			continue
		}
		if err := run.db.ReplacePackage(mod, names); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing package %s: %v\n", mod, err)
			os.Exit(1)
		}
		run.seen[mod] = struct{}{}
		run.packages++
		run.names += int64(len(names))
	}
}

// IndexResponseCLI summarizes one index run for CLI output
type IndexResponseCLI struct {
	ScanID     string    `json:"scanId"`
	Root       string    `json:"root"`
	Roots      []RootCLI `json:"roots"`
	Packages   int64     `json:"packages"`
	Names      int64     `json:"names"`
	DurationMs int64     `json:"durationMs"`
}

// Package pyruntime bridges to a host CPython interpreter. Every probe
// runs the interpreter as a subprocess with a bounded timeout and reads
// one JSON document back; nothing here loads Python into the pyidx
// process.
package pyruntime

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"time"

	pyerrors "pyidx/internal/errors"
)

// DefaultProbeTimeout bounds a single interpreter probe.
const DefaultProbeTimeout = 5 * time.Second

// Interpreter is a resolved CPython executable.
type Interpreter struct {
	// Path is the executable path as resolved on this host.
	Path string
	// Timeout bounds each probe; zero disables the bound.
	Timeout time.Duration
}

// Find resolves a usable interpreter. An explicitly configured executable
// wins; otherwise python3 and python are tried on PATH in that order.
func Find(configured string) (*Interpreter, error) {
	candidates := []string{"python3", "python"}
	if configured != "" {
		candidates = []string{configured}
	}
	for _, cand := range candidates {
		if path, err := exec.LookPath(cand); err == nil {
			return &Interpreter{Path: path, Timeout: DefaultProbeTimeout}, nil
		}
	}
	return nil, pyerrors.New(pyerrors.InterpreterUnavailable,
		"no usable python interpreter", nil).WithDetails(map[string]interface{}{
		"tried": candidates,
	})
}

const sysPathScript = `import json, sys
json.dump([p for p in sys.path if p], sys.stdout)
`

const builtinsScript = `import json, sys
json.dump(sorted(sys.builtin_module_names), sys.stdout)
`

const prefixScript = `import json, sys
json.dump(sys.prefix, sys.stdout)
`

const versionScript = `import json, platform, sys
json.dump(platform.python_version(), sys.stdout)
`

// SysPath reports the interpreter's module search path with empty entries
// dropped.
func (i *Interpreter) SysPath(ctx context.Context) ([]string, error) {
	var paths []string
	if err := i.probeJSON(ctx, sysPathScript, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// BuiltinModules reports the modules compiled into the interpreter,
// sorted by name.
func (i *Interpreter) BuiltinModules(ctx context.Context) ([]string, error) {
	var names []string
	if err := i.probeJSON(ctx, builtinsScript, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Prefix reports sys.prefix, the root of the interpreter installation.
func (i *Interpreter) Prefix(ctx context.Context) (string, error) {
	var prefix string
	if err := i.probeJSON(ctx, prefixScript, &prefix); err != nil {
		return "", err
	}
	return prefix, nil
}

// Version reports the interpreter's version string, e.g. "3.12.4".
func (i *Interpreter) Version(ctx context.Context) (string, error) {
	var version string
	if err := i.probeJSON(ctx, versionScript, &version); err != nil {
		return "", err
	}
	return version, nil
}

func (i *Interpreter) probeJSON(ctx context.Context, script string, out interface{}) error {
	data, err := i.probe(ctx, script)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (i *Interpreter) probe(ctx context.Context, script string, args ...string) ([]byte, error) {
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, i.Path, append([]string{"-c", script}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, pyerrors.New(pyerrors.Timeout, "interpreter probe timed out", err)
		}
		return nil, err
	}
	return output, nil
}

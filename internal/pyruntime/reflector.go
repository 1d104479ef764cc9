package pyruntime

import (
	"context"
	"encoding/json"
	"errors"

	"pyidx/internal/discovery"
)

// reflectScript imports one module and reports its surface. Module init
// code can print; stdout is parked on stderr until the report is written
// so the document stays parseable.
const reflectScript = `import importlib, inspect, json, sys

name = sys.argv[1]
real = sys.stdout
sys.stdout = sys.stderr
try:
    mod = importlib.import_module(name)
finally:
    sys.stdout = real

declared = getattr(mod, "__all__", None)
exported = None
if isinstance(declared, (list, tuple)):
    exported = [str(n) for n in declared]

members = []
for member_name, value in inspect.getmembers(mod):
    if inspect.isclass(value):
        kind = "class"
    elif inspect.isfunction(value):
        kind = "function"
    elif inspect.isbuiltin(value):
        kind = "builtin"
    else:
        kind = "other"
    members.append({"name": member_name, "kind": kind})

json.dump({"all": exported, "members": members}, sys.stdout)
`

// Reflector loads modules in a CPython subprocess. It satisfies
// discovery.ModuleReflector; the engine applies its own deny and privacy
// guards before calling Load.
type Reflector struct {
	interp *Interpreter
}

// NewReflector wraps an interpreter as a module reflector.
func NewReflector(interp *Interpreter) *Reflector {
	return &Reflector{interp: interp}
}

// Load imports identifier in the subprocess and reports its export list
// and members. Import failures and timeouts come back as errors; the
// caller decides whether they are fatal.
func (r *Reflector) Load(ctx context.Context, identifier string) (*discovery.RuntimeModule, error) {
	if identifier == "" {
		return nil, errors.New("empty module identifier")
	}
	out, err := r.interp.probe(ctx, reflectScript, identifier)
	if err != nil {
		return nil, err
	}
	return decodeRuntimeModule(out)
}

// decodeRuntimeModule parses one probe report. A JSON null export list
// means the module declares none; an empty list is an authoritative empty
// surface.
func decodeRuntimeModule(data []byte) (*discovery.RuntimeModule, error) {
	var doc struct {
		All     []string `json:"all"`
		Members []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"members"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	mod := &discovery.RuntimeModule{Exports: doc.All}
	for _, m := range doc.Members {
		mod.Members = append(mod.Members, discovery.Member{
			Name: m.Name,
			Kind: discovery.MemberKind(m.Kind),
		})
	}
	return mod, nil
}

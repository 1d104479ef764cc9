package discovery

import (
	"pyidx/internal/logging"
	"pyidx/internal/pyast"
)

// fixedDeny lists modules never loaded reflectively: builtins never has to
// be imported explicitly, and python_crun crashes the interpreter on import.
var fixedDeny = []string{"builtins", "python_crun"}

// Config configures an Engine.
type Config struct {
	// Reflector provides runtime reflection for compiled and builtin
	// modules. Nil disables reflective extraction.
	Reflector ModuleReflector

	// Env drives provenance derivation.
	Env Environment

	// Logger receives per-file diagnostics. Nil means a stderr logger at
	// warn level.
	Logger *logging.Logger

	// DenyModules extends the fixed reflective deny list.
	DenyModules []string

	// IgnoreDirs extends the enumerator's directory skip set.
	IgnoreDirs []string

	// MaxFileSize caps source files read by the extractor, in bytes.
	// Zero means no limit.
	MaxFileSize int64
}

// Engine discovers importable names. It is synchronous and stateless
// between modules; a single instance serves one discovery pass at a time.
type Engine struct {
	parser      *pyast.Parser
	reflector   ModuleReflector
	env         Environment
	log         *logging.Logger
	deny        map[string]struct{}
	ignoreDirs  map[string]struct{}
	maxFileSize int64
}

// New creates an Engine.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.WarnLevel})
	}

	deny := make(map[string]struct{}, len(fixedDeny)+len(cfg.DenyModules))
	for _, m := range fixedDeny {
		deny[m] = struct{}{}
	}
	for _, m := range cfg.DenyModules {
		deny[m] = struct{}{}
	}

	ignore := make(map[string]struct{}, len(cfg.IgnoreDirs))
	for _, d := range cfg.IgnoreDirs {
		ignore[d] = struct{}{}
	}

	return &Engine{
		parser:      pyast.NewParser(),
		reflector:   cfg.Reflector,
		env:         cfg.Env,
		log:         log,
		deny:        deny,
		ignoreDirs:  ignore,
		maxFileSize: cfg.MaxFileSize,
	}
}

// ParserAvailable reports whether source extraction is compiled in.
func (e *Engine) ParserAvailable() bool {
	return pyast.IsAvailable()
}

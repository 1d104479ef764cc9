//go:build !cgo

// This stub is used when CGO is not available; source extraction degrades
// and only reflective discovery works.
package pyast

import "context"

// Parser wraps a tree-sitter parser configured for Python.
// This is a stub implementation when CGO is not available.
type Parser struct{}

// NewParser creates a Python parser.
// Returns nil when CGO is not available.
func NewParser() *Parser {
	return nil
}

// ParseSource parses source and digests its top-level statements.
// Stub implementation returns ErrNoCGO.
func (p *Parser) ParseSource(ctx context.Context, source []byte) (*Module, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether Python parsing is compiled in.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

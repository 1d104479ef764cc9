// Package pyast parses Python source with tree-sitter and digests it into
// the top-level statements that can contribute importable names.
package pyast

import "errors"

// ErrNoCGO is returned when parsing is unavailable because the tree-sitter
// grammar was not compiled in.
var ErrNoCGO = errors.New("python parsing requires CGO (tree-sitter)")

// StatementKind tags the closed set of top-level statement shapes the
// indexer understands. Anything else is inert and never digested.
type StatementKind int

const (
	// StmtAssignment is a top-level assignment with a value; a bare
	// annotation (x: int) is inert.
	StmtAssignment StatementKind = iota
	// StmtFunctionDef is a top-level def, including async and decorated ones.
	StmtFunctionDef
	// StmtClassDef is a top-level class, including decorated ones.
	StmtClassDef
)

// Statement is the digest of one top-level statement.
type Statement struct {
	Kind StatementKind

	// Name is the declared identifier for function and class statements.
	Name string

	// Targets are the simple identifier targets of an assignment, in source
	// order. Chained assignments contribute every identifier in the chain;
	// tuple, attribute, and subscript targets are omitted.
	Targets []string

	// Exports holds the decoded right-hand side of an assignment when it is
	// a list or tuple literal made entirely of plain string literals.
	// ExportsValid distinguishes a decoded empty list from "not a string
	// sequence"; when false, Exports is nil.
	Exports      []string
	ExportsValid bool

	// Line is the 1-indexed start line.
	Line int
}

// Module is the digest of one parsed source file.
type Module struct {
	Statements []Statement

	// HasErrors reports syntax errors anywhere in the file. Callers treat
	// such a file as unparseable; the digest is not trustworthy.
	HasErrors bool
}

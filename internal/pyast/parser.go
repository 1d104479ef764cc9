//go:build cgo

package pyast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps a tree-sitter parser configured for Python.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseSource parses source and digests its top-level statements.
// Syntax errors do not fail the parse; they set Module.HasErrors.
func (p *Parser) ParseSource(ctx context.Context, source []byte) (*Module, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return digest(tree.RootNode(), source), nil
}

// IsAvailable returns whether Python parsing is compiled in.
func IsAvailable() bool {
	return true
}

// digest walks the root's direct children only; nested scopes never
// contribute names.
func digest(root *sitter.Node, source []byte) *Module {
	mod := &Module{HasErrors: root.HasError()}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node == nil {
			continue
		}

		switch node.Type() {
		case "function_definition":
			appendDef(mod, node, source, StmtFunctionDef)
		case "class_definition":
			appendDef(mod, node, source, StmtClassDef)
		case "decorated_definition":
			inner := node.ChildByFieldName("definition")
			if inner == nil {
				continue
			}
			switch inner.Type() {
			case "function_definition":
				appendDef(mod, inner, source, StmtFunctionDef)
			case "class_definition":
				appendDef(mod, inner, source, StmtClassDef)
			}
		case "expression_statement":
			for j := 0; j < int(node.NamedChildCount()); j++ {
				child := node.NamedChild(j)
				if child != nil && child.Type() == "assignment" {
					appendAssignment(mod, child, source)
				}
			}
		}
	}

	return mod
}

func appendDef(mod *Module, node *sitter.Node, source []byte, kind StatementKind) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	mod.Statements = append(mod.Statements, Statement{
		Kind: kind,
		Name: string(source[name.StartByte():name.EndByte()]),
		Line: int(node.StartPoint().Row) + 1,
	})
}

// appendAssignment digests an assignment with a value; a bare annotation
// (x: int) declares nothing. Chained assignments nest on the right:
// a = b = 1 is assignment(a, assignment(b, 1)), so targets are collected
// while descending.
func appendAssignment(mod *Module, node *sitter.Node, source []byte) {
	if node.ChildByFieldName("right") == nil {
		return
	}

	st := Statement{Kind: StmtAssignment, Line: int(node.StartPoint().Row) + 1}

	cur := node
	for {
		if left := cur.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			st.Targets = append(st.Targets, string(source[left.StartByte():left.EndByte()]))
		}
		right := cur.ChildByFieldName("right")
		if right == nil {
			break
		}
		if right.Type() == "assignment" {
			cur = right
			continue
		}
		st.Exports, st.ExportsValid = decodeStringSequence(right, source)
		break
	}

	if len(st.Targets) == 0 {
		return
	}
	mod.Statements = append(mod.Statements, st)
}

// decodeStringSequence decodes a list or tuple literal whose elements are
// all plain string literals. Any other shape is not a string sequence.
func decodeStringSequence(node *sitter.Node, source []byte) ([]string, bool) {
	node = unwrapParens(node)
	if node == nil {
		return nil, false
	}
	if t := node.Type(); t != "list" && t != "tuple" {
		return nil, false
	}

	out := []string{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		el := node.NamedChild(i)
		if el == nil || el.Type() == "comment" {
			continue
		}
		s, ok := decodeStringExpr(unwrapParens(el), source)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// decodeStringExpr decodes a string literal or an implicit concatenation
// of string literals ("a" "b").
func decodeStringExpr(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string":
		return decodeStringLiteral(string(source[node.StartByte():node.EndByte()]))
	case "concatenated_string":
		var sb strings.Builder
		found := false
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child == nil || child.Type() == "comment" {
				continue
			}
			part, ok := decodeStringExpr(child, source)
			if !ok {
				return "", false
			}
			sb.WriteString(part)
			found = true
		}
		return sb.String(), found
	}
	return "", false
}

// unwrapParens strips parenthesized_expression wrappers, which the runtime
// grammar folds away.
func unwrapParens(node *sitter.Node) *sitter.Node {
	for node != nil && node.Type() == "parenthesized_expression" {
		var inner *sitter.Node
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child != nil && child.Type() != "comment" {
				inner = child
				break
			}
		}
		node = inner
	}
	return node
}

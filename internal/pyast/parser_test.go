//go:build cgo

package pyast

import (
	"context"
	"testing"
)

func parse(t *testing.T, source string) *Module {
	t.Helper()
	p := NewParser()
	if p == nil {
		t.Skip("tree-sitter not available")
	}
	mod, err := p.ParseSource(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	return mod
}

func TestParseSource_Definitions(t *testing.T) {
	mod := parse(t, `import os

def foo():
    def inner():
        pass
    return 1

async def fetch():
    pass

class Bar:
    def method(self):
        pass

@decorator
def decorated():
    pass

@decorator
class DecoratedClass:
    pass
`)

	if mod.HasErrors {
		t.Fatal("unexpected syntax errors")
	}

	want := []struct {
		kind StatementKind
		name string
	}{
		{StmtFunctionDef, "foo"},
		{StmtFunctionDef, "fetch"},
		{StmtClassDef, "Bar"},
		{StmtFunctionDef, "decorated"},
		{StmtClassDef, "DecoratedClass"},
	}

	if len(mod.Statements) != len(want) {
		t.Fatalf("got %d statements, want %d: %+v", len(mod.Statements), len(want), mod.Statements)
	}
	for i, w := range want {
		st := mod.Statements[i]
		if st.Kind != w.kind || st.Name != w.name {
			t.Errorf("statement %d = {%v %q}, want {%v %q}", i, st.Kind, st.Name, w.kind, w.name)
		}
	}

	// Nested definitions never surface.
	for _, st := range mod.Statements {
		if st.Name == "inner" || st.Name == "method" {
			t.Errorf("nested definition %q should not be digested", st.Name)
		}
	}
}

func TestParseSource_Assignments(t *testing.T) {
	mod := parse(t, `x = 5
a = b = 1
name: str = "hi"
bare: int
p, q = 1, 2
obj.attr = 3
items[0] = 4
count += 1
`)

	if len(mod.Statements) != 3 {
		t.Fatalf("got %d statements, want 3: %+v", len(mod.Statements), mod.Statements)
	}

	first := mod.Statements[0]
	if first.Kind != StmtAssignment || len(first.Targets) != 1 || first.Targets[0] != "x" {
		t.Errorf("first statement = %+v, want assignment to x", first)
	}
	if first.Line != 1 {
		t.Errorf("first statement line = %d, want 1", first.Line)
	}

	chained := mod.Statements[1]
	if len(chained.Targets) != 2 || chained.Targets[0] != "a" || chained.Targets[1] != "b" {
		t.Errorf("chained targets = %v, want [a b]", chained.Targets)
	}

	// Annotated assignment with a value declares its target; a bare
	// annotation does not.
	annotated := mod.Statements[2]
	if len(annotated.Targets) != 1 || annotated.Targets[0] != "name" {
		t.Errorf("annotated targets = %v, want [name]", annotated.Targets)
	}
}

func TestParseSource_AttributeTargetInChain(t *testing.T) {
	mod := parse(t, "obj.attr = y = 5\n")

	if len(mod.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(mod.Statements))
	}
	if targets := mod.Statements[0].Targets; len(targets) != 1 || targets[0] != "y" {
		t.Errorf("targets = %v, want [y]", targets)
	}
}

func TestParseSource_ExportList(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantValid bool
		wantNames []string
	}{
		{
			name:      "list of strings",
			source:    `__all__ = ["foo", "bar"]`,
			wantValid: true,
			wantNames: []string{"foo", "bar"},
		},
		{
			name:      "tuple of strings",
			source:    `__all__ = ("foo", "bar")`,
			wantValid: true,
			wantNames: []string{"foo", "bar"},
		},
		{
			name:      "empty list",
			source:    `__all__ = []`,
			wantValid: true,
			wantNames: []string{},
		},
		{
			name: "multiline list with comment",
			source: `__all__ = [
    "foo",  # main entry point
    'bar',
]`,
			wantValid: true,
			wantNames: []string{"foo", "bar"},
		},
		{
			name:      "parenthesized list",
			source:    `__all__ = (["foo"])`,
			wantValid: true,
			wantNames: []string{"foo"},
		},
		{
			name:      "concatenated strings",
			source:    `__all__ = ["fo" "o"]`,
			wantValid: true,
			wantNames: []string{"foo"},
		},
		{
			name:      "raw and unicode prefixes",
			source:    `__all__ = [r"foo", u"bar"]`,
			wantValid: true,
			wantNames: []string{"foo", "bar"},
		},
		{
			name:      "f-string element",
			source:    `__all__ = [f"foo{x}"]`,
			wantValid: false,
		},
		{
			name:      "bytes element",
			source:    `__all__ = [b"foo"]`,
			wantValid: false,
		},
		{
			name:      "name element",
			source:    `__all__ = [foo]`,
			wantValid: false,
		},
		{
			name:      "number element",
			source:    `__all__ = [1, 2]`,
			wantValid: false,
		},
		{
			name:      "comprehension",
			source:    `__all__ = [n for n in names]`,
			wantValid: false,
		},
		{
			name:      "plain string value",
			source:    `__all__ = "foo"`,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := parse(t, tt.source+"\n")
			if len(mod.Statements) != 1 {
				t.Fatalf("got %d statements, want 1: %+v", len(mod.Statements), mod.Statements)
			}
			st := mod.Statements[0]
			if len(st.Targets) != 1 || st.Targets[0] != "__all__" {
				t.Fatalf("targets = %v, want [__all__]", st.Targets)
			}
			if st.ExportsValid != tt.wantValid {
				t.Fatalf("ExportsValid = %v, want %v", st.ExportsValid, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			if len(st.Exports) != len(tt.wantNames) {
				t.Fatalf("exports = %v, want %v", st.Exports, tt.wantNames)
			}
			for i, n := range tt.wantNames {
				if st.Exports[i] != n {
					t.Errorf("exports[%d] = %q, want %q", i, st.Exports[i], n)
				}
			}
		})
	}
}

func TestParseSource_ExportListInChain(t *testing.T) {
	mod := parse(t, `names = __all__ = ["foo"]` + "\n")

	if len(mod.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(mod.Statements))
	}
	st := mod.Statements[0]
	if len(st.Targets) != 2 || st.Targets[0] != "names" || st.Targets[1] != "__all__" {
		t.Errorf("targets = %v, want [names __all__]", st.Targets)
	}
	if !st.ExportsValid || len(st.Exports) != 1 || st.Exports[0] != "foo" {
		t.Errorf("exports = %v (valid=%v), want [foo]", st.Exports, st.ExportsValid)
	}
}

func TestParseSource_SyntaxErrors(t *testing.T) {
	mod := parse(t, "def broken(:\n    pass\n")
	if !mod.HasErrors {
		t.Error("HasErrors = false for malformed source")
	}

	clean := parse(t, "def fine():\n    pass\n")
	if clean.HasErrors {
		t.Error("HasErrors = true for valid source")
	}
}

func TestParseSource_InertStatements(t *testing.T) {
	mod := parse(t, `"""Module docstring."""
import os
from sys import path

if True:
    conditional = 1

for i in range(3):
    loops = i

print("side effect")
`)

	if len(mod.Statements) != 0 {
		t.Errorf("inert statements should not be digested, got %+v", mod.Statements)
	}
}

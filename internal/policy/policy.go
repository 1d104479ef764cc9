// Package policy loads the per-project scan policy from .pyidx/policy.yaml.
//
// The policy extends the engine's built-in deny list and directory skip set
// and records project-wide scan preferences. A missing file is not an error;
// it yields the zero-value policy. A pyproject.toml [tool.pyidx] table is
// folded in on top via ApplyOverrides.
package policy

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	pyerrors "pyidx/internal/errors"
	"pyidx/internal/project"
)

// Policy is the decoded .pyidx/policy.yaml.
type Policy struct {
	// DenyModules are module identifiers never loaded reflectively,
	// merged with the engine's fixed deny list.
	DenyModules []string `yaml:"denyModules"`

	// IgnoreDirs are directory names skipped during submodule enumeration,
	// merged with the engine's default skip set.
	IgnoreDirs []string `yaml:"ignoreDirs"`

	// IncludePrivate surfaces underscore-prefixed names and modules.
	IncludePrivate bool `yaml:"includePrivate"`

	// FollowSrcLayout controls src/-layout handling. Unset, layout
	// detection decides; an explicit false keeps the project root as the
	// scan root even when a src/ layout is detected.
	FollowSrcLayout *bool `yaml:"followSrcLayout"`
}

// ApplyOverrides folds the [tool.pyidx] table of pyproject.toml into the
// policy. List fields combine; boolean overrides win when present.
func (p *Policy) ApplyOverrides(o *project.Overrides) {
	if o == nil {
		return
	}
	p.DenyModules = append(p.DenyModules, o.DenyModules...)
	p.IgnoreDirs = append(p.IgnoreDirs, o.IgnoreDirs...)
	if o.IncludePrivate != nil {
		p.IncludePrivate = *o.IncludePrivate
	}
	if o.FollowSrcLayout != nil {
		p.FollowSrcLayout = o.FollowSrcLayout
	}
}

// Load reads the policy file at path.
// A missing or empty file yields the zero-value policy; a file that does not
// decode strictly yields a POLICY_INVALID error.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Policy{}, nil
		}
		return nil, pyerrors.New(pyerrors.PolicyInvalid, "cannot read policy file", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Policy
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return &Policy{}, nil
		}
		return nil, pyerrors.New(pyerrors.PolicyInvalid, "cannot decode policy file", err).
			WithDetails(map[string]string{"path": path})
	}

	return &p, nil
}

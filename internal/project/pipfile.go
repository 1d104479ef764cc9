package project

import (
	"sort"

	"github.com/BurntSushi/toml"
)

// pipfileDoc maps the subset of a Pipfile that pyidx reads.
type pipfileDoc struct {
	Packages    map[string]interface{} `toml:"packages"`
	DevPackages map[string]interface{} `toml:"dev-packages"`
}

// parsePipfile fills dependency names from the [packages] table, sorted for
// stable output. Decode failures leave info untouched.
func parsePipfile(info *Info) {
	var doc pipfileDoc
	if _, err := toml.DecodeFile(info.ManifestPath, &doc); err != nil {
		return
	}

	deps := make([]string, 0, len(doc.Packages))
	for name := range doc.Packages {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	info.Dependencies = deps
}

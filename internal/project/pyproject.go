package project

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// pyprojectFile maps the subset of pyproject.toml that pyidx reads.
type pyprojectFile struct {
	Project struct {
		Name         string   `toml:"name"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Pyidx *Overrides `toml:"pyidx"`
	} `toml:"tool"`
}

// parsePyproject fills info from pyproject.toml. Decode failures leave info
// untouched; the caller falls back to the directory name.
func parsePyproject(info *Info) {
	data, err := os.ReadFile(info.ManifestPath)
	if err != nil {
		return
	}

	var doc pyprojectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return
	}

	info.Name = doc.Project.Name
	info.Dependencies = doc.Project.Dependencies
	info.Overrides = doc.Tool.Pyidx
}

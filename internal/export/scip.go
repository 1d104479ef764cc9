package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"pyidx/internal/discovery"
)

// SCIP emits a SCIP index with one document per defining module. Records
// carry no positions, so documents list symbol information without
// occurrences; symbol strings follow the scip-python global scheme.
func SCIP(w io.Writer, names []discovery.Name, meta Meta) error {
	sorted := sortedCopy(names)

	byModule := make(map[string][]discovery.Name)
	var modules []string
	for _, n := range sorted {
		if _, ok := byModule[n.Module]; !ok {
			modules = append(modules, n.Module)
		}
		byModule[n.Module] = append(byModule[n.Module], n)
	}
	sort.Strings(modules)

	index := &scippb.Index{
		Metadata: &scippb.Metadata{
			ToolInfo: &scippb.ToolInfo{
				Name:    "pyidx",
				Version: meta.ToolVersion,
			},
			ProjectRoot:          "file://" + meta.ProjectRoot,
			TextDocumentEncoding: scippb.TextEncoding_UTF8,
		},
	}

	for _, module := range modules {
		doc := &scippb.Document{
			Language:     "python",
			RelativePath: modulePath(module),
		}
		for _, n := range byModule[module] {
			doc.Symbols = append(doc.Symbols, &scippb.SymbolInformation{
				Symbol:      pythonSymbol(n),
				DisplayName: n.Name,
			})
		}
		index.Documents = append(index.Documents, doc)
	}

	data, err := proto.Marshal(index)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// modulePath renders a dotted module name as a source-relative path.
func modulePath(module string) string {
	return strings.ReplaceAll(module, ".", "/") + ".py"
}

// pythonSymbol formats a scip-python global symbol. The module descriptor
// is backtick-escaped because dotted paths are not simple identifiers;
// the name itself is a term descriptor.
func pythonSymbol(n discovery.Name) string {
	return fmt.Sprintf("scip-python python %s 0.0 `%s`/%s.", n.Package, n.Module, n.Name)
}

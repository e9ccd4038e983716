package completion

import (
	"sort"

	"github.com/oakwood-commons/jex/internal/pathindex"
)

// PathProvider implements Provider on top of the document path index, with
// jq builtin functions as a secondary candidate source.
type PathProvider struct {
	index    *pathindex.Index
	registry *FunctionRegistry
}

// NewPathProvider creates a provider backed by the given index.
func NewPathProvider(index *pathindex.Index) *PathProvider {
	return &PathProvider{
		index:    index,
		registry: NewFunctionRegistry(),
	}
}

// DiscoverFunctions returns the jq builtins known to the registry.
func (p *PathProvider) DiscoverFunctions() []FunctionMetadata {
	return p.registry.All()
}

// Suggest returns candidates for the token under the cursor. Path candidates
// come first, ranked by shortest remaining suffix and then lexicographically;
// builtin functions matching a bare identifier token follow. An empty result
// means no suggestions, never a failure.
func (p *PathProvider) Suggest(input string, cursor int) []Candidate {
	tok, ok := tokenAt(input, cursor)
	if !ok {
		return nil
	}

	var out []Candidate

	if isPathToken(tok) {
		entries := p.index.Lookup(tok.Value)
		sort.SliceStable(entries, func(i, j int) bool {
			ri := len(entries[i].Path) - len(tok.Value)
			rj := len(entries[j].Path) - len(tok.Value)
			if ri != rj {
				return ri < rj
			}
			return entries[i].Path < entries[j].Path
		})
		for _, e := range entries {
			out = append(out, Candidate{
				Text:    splice(input, tok.Start, cursor, e.Path),
				Display: e.Path,
				Kind:    CandidatePath,
				Detail:  string(e.Kind),
			})
		}
		return out
	}

	if isFunctionToken(tok) {
		for _, fn := range p.registry.MatchPrefix(tok.Value) {
			out = append(out, Candidate{
				Text:    splice(input, tok.Start, cursor, fn.Name),
				Display: fn.Name,
				Kind:    CandidateFunction,
				Detail:  fn.Signature,
			})
		}
	}
	return out
}

// splice replaces input[start:end] with repl.
func splice(input string, start, end int, repl string) string {
	return input[:start] + repl + input[end:]
}

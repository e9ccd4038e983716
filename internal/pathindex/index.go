// Package pathindex builds a prefix-searchable index over every access path
// reachable in a parsed document. The index is constructed once per session
// and is read-only afterwards.
package pathindex

import (
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the value type a path resolves to.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
)

// Entry is a single access path paired with the kind of value it resolves to.
type Entry struct {
	Path string
	Kind Kind
}

// Options bounds the index build. Both limits are soft: exceeding one
// truncates the walk instead of failing.
type Options struct {
	MaxDepth   int // maximum nesting depth to descend into (0 = DefaultMaxDepth)
	MaxEntries int // maximum number of entries to record (0 = DefaultMaxEntries)
}

// Default limits, mirroring the documented CLI defaults.
const (
	DefaultMaxDepth   = 1000
	DefaultMaxEntries = 50000
)

// node is one segment in the arena trie. Children are linked through slice
// indices so the whole structure frees as one block with the index.
type node struct {
	segment    string // rendered access segment, e.g. ".a" or "[0]"
	kind       Kind
	firstChild int // index into Index.nodes, -1 when leaf
	nextSib    int // index of next sibling, -1 when last
}

// Index holds the arena trie plus a sorted flat view of all entries used for
// prefix lookup.
type Index struct {
	nodes     []node
	entries   []Entry // sorted lexicographically by Path
	truncated bool
}

// Build walks the document depth-first and records every reachable access
// path. Object keys extend the parent path with a keyed segment, array
// indices with an indexed segment; scalars terminate a path. Branches deeper
// than MaxDepth are truncated, as is the walk once MaxEntries paths have been
// recorded; both cases mark the index truncated but never fail.
func Build(root interface{}, opts Options) *Index {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}

	ix := &Index{}
	b := &builder{ix: ix, opts: opts}
	b.walk(root, "", 0)

	sort.Slice(ix.entries, func(i, j int) bool {
		return ix.entries[i].Path < ix.entries[j].Path
	})
	return ix
}

type builder struct {
	ix   *Index
	opts Options
}

// walk descends iteratively on siblings and recursively on depth. Recursion
// depth is bounded by MaxDepth, so arbitrarily deep inputs cannot exhaust the
// stack.
func (b *builder) walk(value interface{}, path string, depth int) int {
	if len(b.ix.entries) >= b.opts.MaxEntries {
		b.ix.truncated = true
		return -1
	}

	self := len(b.ix.nodes)
	kind := kindOf(value)
	b.ix.nodes = append(b.ix.nodes, node{kind: kind, firstChild: -1, nextSib: -1})
	if path != "" {
		b.ix.entries = append(b.ix.entries, Entry{Path: path, Kind: kind})
	}

	if depth >= b.opts.MaxDepth {
		if kind == KindObject || kind == KindArray {
			b.ix.truncated = true
		}
		return self
	}

	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		prev := -1
		for _, k := range keys {
			seg := renderKeySegment(k)
			child := b.walk(v[k], path+seg, depth+1)
			if child < 0 {
				break
			}
			b.ix.nodes[child].segment = seg
			b.link(self, prev, child)
			prev = child
		}
	case []interface{}:
		prev := -1
		for i, elem := range v {
			seg := "[" + strconv.Itoa(i) + "]"
			child := b.walk(elem, path+seg, depth+1)
			if child < 0 {
				break
			}
			b.ix.nodes[child].segment = seg
			b.link(self, prev, child)
			prev = child
		}
	}
	return self
}

func (b *builder) link(parent, prevSibling, child int) {
	if prevSibling < 0 {
		b.ix.nodes[parent].firstChild = child
	} else {
		b.ix.nodes[prevSibling].nextSib = child
	}
}

// Lookup returns exactly the entries whose path starts with the given prefix,
// in lexicographic order. An empty prefix returns all entries; "." matches
// every path since all paths begin with a keyed or indexed root access.
func (ix *Index) Lookup(prefix string) []Entry {
	if prefix == "" || prefix == "." {
		out := make([]Entry, len(ix.entries))
		copy(out, ix.entries)
		return out
	}

	// Entries are sorted, so the matches form one contiguous run.
	lo := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Path >= prefix
	})
	hi := lo
	for hi < len(ix.entries) && strings.HasPrefix(ix.entries[hi].Path, prefix) {
		hi++
	}

	out := make([]Entry, hi-lo)
	copy(out, ix.entries[lo:hi])
	return out
}

// Entries returns all indexed entries in lexicographic order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// Len reports the number of indexed paths.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Truncated reports whether any branch was cut short by the depth or entry
// limit.
func (ix *Index) Truncated() bool {
	return ix.truncated
}

// renderKeySegment renders an object key as an access segment: plain ".key"
// for identifier-like keys, quoted bracket access otherwise.
func renderKeySegment(key string) string {
	if isIdentifier(key) {
		return "." + key
	}
	escaped := strings.ReplaceAll(key, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `.["` + escaped + `"]`
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func kindOf(value interface{}) Kind {
	switch value.(type) {
	case map[string]interface{}:
		return KindObject
	case []interface{}:
		return KindArray
	case string:
		return KindString
	case bool:
		return KindBoolean
	case nil:
		return KindNull
	default:
		// json.Unmarshal produces float64; YAML/TOML loaders can produce
		// int/int64/uint64 as well.
		return KindNumber
	}
}

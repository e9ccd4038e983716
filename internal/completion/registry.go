package completion

import (
	"sort"
	"strings"
)

// FunctionRegistry is the single source of truth for builtin function
// metadata. It deduplicates functions by name and provides lookup by name,
// category, and prefix.
type FunctionRegistry struct {
	functions  map[string]FunctionMetadata
	byCategory map[string][]string
	allNames   []string // sorted
}

// defaultCategoryOrder defines the display order for function categories.
var defaultCategoryOrder = []string{
	"general",
	"object",
	"array",
	"string",
	"math",
	"conversion",
	"regex",
}

// NewFunctionRegistry creates a registry preloaded with the jq builtins
// surfaced in completion and help.
func NewFunctionRegistry() *FunctionRegistry {
	r := &FunctionRegistry{
		functions:  make(map[string]FunctionMetadata),
		byCategory: make(map[string][]string),
	}
	r.load(jqBuiltins())
	return r
}

func (r *FunctionRegistry) load(funcs []FunctionMetadata) {
	for _, fn := range funcs {
		existing, ok := r.functions[fn.Name]
		if ok && len(existing.Description) >= len(fn.Description) {
			continue
		}
		r.functions[fn.Name] = fn
	}

	r.byCategory = make(map[string][]string)
	r.allNames = r.allNames[:0]
	for name, fn := range r.functions {
		cat := fn.Category
		if cat == "" {
			cat = "general"
		}
		r.byCategory[cat] = append(r.byCategory[cat], name)
		r.allNames = append(r.allNames, name)
	}
	for cat := range r.byCategory {
		sort.Strings(r.byCategory[cat])
	}
	sort.Strings(r.allNames)
}

// Get returns metadata for a function by name, or nil if not found.
func (r *FunctionRegistry) Get(name string) *FunctionMetadata {
	if fn, ok := r.functions[name]; ok {
		return &fn
	}
	return nil
}

// All returns all functions sorted alphabetically by name.
func (r *FunctionRegistry) All() []FunctionMetadata {
	result := make([]FunctionMetadata, 0, len(r.allNames))
	for _, name := range r.allNames {
		result = append(result, r.functions[name])
	}
	return result
}

// ByCategory returns functions for a specific category, sorted alphabetically.
func (r *FunctionRegistry) ByCategory(category string) []FunctionMetadata {
	names := r.byCategory[category]
	result := make([]FunctionMetadata, 0, len(names))
	for _, name := range names {
		result = append(result, r.functions[name])
	}
	return result
}

// Categories returns all categories that contain functions, in display order.
func (r *FunctionRegistry) Categories() []string {
	result := make([]string, 0, len(defaultCategoryOrder))
	for _, cat := range defaultCategoryOrder {
		if len(r.byCategory[cat]) > 0 {
			result = append(result, cat)
		}
	}
	seen := make(map[string]bool, len(defaultCategoryOrder))
	for _, c := range defaultCategoryOrder {
		seen[c] = true
	}
	extra := make([]string, 0)
	for cat := range r.byCategory {
		if !seen[cat] && len(r.byCategory[cat]) > 0 {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	return append(result, extra...)
}

// MatchPrefix returns functions whose name starts with the given prefix
// (case-insensitive), sorted alphabetically.
func (r *FunctionRegistry) MatchPrefix(prefix string) []FunctionMetadata {
	prefix = strings.ToLower(prefix)
	var result []FunctionMetadata
	for _, name := range r.allNames {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			result = append(result, r.functions[name])
		}
	}
	return result
}

// Size returns the total number of unique functions in the registry.
func (r *FunctionRegistry) Size() int {
	return len(r.functions)
}

// jqBuiltins returns metadata for the jq builtins offered as function
// completions. This is intentionally the commonly-used subset, not the full
// builtin table; unlisted builtins still evaluate fine.
func jqBuiltins() []FunctionMetadata {
	return []FunctionMetadata{
		{Name: "length", Signature: "length -> number", Description: "Length of the input value", Category: "general"},
		{Name: "type", Signature: "type -> string", Description: "Type name of the input value", Category: "general"},
		{Name: "empty", Signature: "empty", Description: "Produce no output", Category: "general"},
		{Name: "error", Signature: "error(message)", Description: "Raise an error with the given message", Category: "general"},
		{Name: "not", Signature: "not -> boolean", Description: "Logical negation of the input", Category: "general"},
		{Name: "recurse", Signature: "recurse(f) -> stream", Description: "Recursively apply f and emit every value", Category: "general"},
		{Name: "paths", Signature: "paths -> stream", Description: "All paths of the input as arrays", Category: "general"},
		{Name: "getpath", Signature: "getpath(p) -> any", Description: "Value at the path array p", Category: "general"},
		{Name: "input_line_number", Signature: "input_line_number -> number", Description: "Current input line number", Category: "general"},

		{Name: "keys", Signature: "keys -> array", Description: "Sorted object keys or array indices", Category: "object"},
		{Name: "keys_unsorted", Signature: "keys_unsorted -> array", Description: "Object keys in original order", Category: "object"},
		{Name: "values", Signature: "values -> array", Description: "Values of an object or array", Category: "object"},
		{Name: "has", Signature: "has(key) -> boolean", Description: "Whether the object has the key", Category: "object"},
		{Name: "to_entries", Signature: "to_entries -> array", Description: "Object to array of {key, value} pairs", Category: "object"},
		{Name: "from_entries", Signature: "from_entries -> object", Description: "Array of {key, value} pairs to object", Category: "object"},
		{Name: "with_entries", Signature: "with_entries(f) -> object", Description: "Transform each {key, value} pair", Category: "object"},
		{Name: "del", Signature: "del(path) -> any", Description: "Delete the value at the given path expression", Category: "object"},

		{Name: "map", Signature: "map(f) -> array", Description: "Apply f to every element", Category: "array"},
		{Name: "select", Signature: "select(cond) -> any", Description: "Pass through values for which cond is true", Category: "array"},
		{Name: "add", Signature: "add -> any", Description: "Sum/concatenate the elements of an array", Category: "array"},
		{Name: "any", Signature: "any -> boolean", Description: "Whether any element is truthy", Category: "array"},
		{Name: "all", Signature: "all -> boolean", Description: "Whether all elements are truthy", Category: "array"},
		{Name: "flatten", Signature: "flatten -> array", Description: "Flatten nested arrays", Category: "array"},
		{Name: "range", Signature: "range(n) -> stream", Description: "Numbers from 0 up to n", Category: "array"},
		{Name: "reverse", Signature: "reverse -> array", Description: "Reverse an array or string", Category: "array"},
		{Name: "sort", Signature: "sort -> array", Description: "Sort an array", Category: "array"},
		{Name: "sort_by", Signature: "sort_by(f) -> array", Description: "Sort an array by the value of f", Category: "array"},
		{Name: "group_by", Signature: "group_by(f) -> array", Description: "Group elements by the value of f", Category: "array"},
		{Name: "unique", Signature: "unique -> array", Description: "Sorted array with duplicates removed", Category: "array"},
		{Name: "unique_by", Signature: "unique_by(f) -> array", Description: "Deduplicate by the value of f", Category: "array"},
		{Name: "min", Signature: "min -> any", Description: "Minimum element of an array", Category: "array"},
		{Name: "max", Signature: "max -> any", Description: "Maximum element of an array", Category: "array"},
		{Name: "first", Signature: "first(f) -> any", Description: "First output of f", Category: "array"},
		{Name: "last", Signature: "last(f) -> any", Description: "Last output of f", Category: "array"},
		{Name: "limit", Signature: "limit(n; f) -> stream", Description: "First n outputs of f", Category: "array"},

		{Name: "contains", Signature: "contains(x) -> boolean", Description: "Whether the input completely contains x", Category: "string"},
		{Name: "inside", Signature: "inside(x) -> boolean", Description: "Inverse of contains", Category: "string"},
		{Name: "startswith", Signature: "startswith(s) -> boolean", Description: "Whether a string starts with s", Category: "string"},
		{Name: "endswith", Signature: "endswith(s) -> boolean", Description: "Whether a string ends with s", Category: "string"},
		{Name: "ltrimstr", Signature: "ltrimstr(s) -> string", Description: "Strip prefix s when present", Category: "string"},
		{Name: "rtrimstr", Signature: "rtrimstr(s) -> string", Description: "Strip suffix s when present", Category: "string"},
		{Name: "split", Signature: "split(sep) -> array", Description: "Split a string on a separator", Category: "string"},
		{Name: "join", Signature: "join(sep) -> string", Description: "Join array elements with a separator", Category: "string"},
		{Name: "ascii_downcase", Signature: "ascii_downcase -> string", Description: "Lowercase ASCII letters", Category: "string"},
		{Name: "ascii_upcase", Signature: "ascii_upcase -> string", Description: "Uppercase ASCII letters", Category: "string"},
		{Name: "explode", Signature: "explode -> array", Description: "String to array of codepoints", Category: "string"},
		{Name: "implode", Signature: "implode -> string", Description: "Array of codepoints to string", Category: "string"},

		{Name: "floor", Signature: "floor -> number", Description: "Round down to an integer", Category: "math"},
		{Name: "ceil", Signature: "ceil -> number", Description: "Round up to an integer", Category: "math"},
		{Name: "round", Signature: "round -> number", Description: "Round to the nearest integer", Category: "math"},
		{Name: "sqrt", Signature: "sqrt -> number", Description: "Square root", Category: "math"},
		{Name: "fabs", Signature: "fabs -> number", Description: "Absolute value", Category: "math"},

		{Name: "tostring", Signature: "tostring -> string", Description: "Convert the input to a string", Category: "conversion"},
		{Name: "tonumber", Signature: "tonumber -> number", Description: "Convert the input to a number", Category: "conversion"},
		{Name: "tojson", Signature: "tojson -> string", Description: "Serialize the input as JSON text", Category: "conversion"},
		{Name: "fromjson", Signature: "fromjson -> any", Description: "Parse the input string as JSON", Category: "conversion"},
		{Name: "todate", Signature: "todate -> string", Description: "Unix timestamp to ISO8601", Category: "conversion"},
		{Name: "fromdate", Signature: "fromdate -> number", Description: "ISO8601 to Unix timestamp", Category: "conversion"},

		{Name: "test", Signature: "test(re) -> boolean", Description: "Whether the input matches the regex", Category: "regex"},
		{Name: "match", Signature: "match(re) -> object", Description: "Regex match details", Category: "regex"},
		{Name: "capture", Signature: "capture(re) -> object", Description: "Named capture groups as an object", Category: "regex"},
		{Name: "sub", Signature: "sub(re; s) -> string", Description: "Replace the first regex match", Category: "regex"},
		{Name: "gsub", Signature: "gsub(re; s) -> string", Description: "Replace every regex match", Category: "regex"},
	}
}

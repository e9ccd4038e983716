// Package completion produces ranked filter-text completions from the
// document path index and the jq builtin function registry.
package completion

// Provider defines the interface for completion sources.
// Implementations decide which candidates apply to the current input and
// cursor position.
type Provider interface {
	// DiscoverFunctions returns all builtin functions this provider knows
	// about, for help surfaces and function completion.
	DiscoverFunctions() []FunctionMetadata

	// Suggest returns ranked candidates for the token under the cursor.
	// An empty slice means "no suggestions" and is never an error.
	Suggest(input string, cursor int) []Candidate
}

// FunctionMetadata describes a builtin function of the filter language.
type FunctionMetadata struct {
	Name        string // Function name (e.g., "length", "map", "select")
	Signature   string // Full signature (e.g., "map(f) -> array")
	Description string // Human-readable description
	Category    string // Category for grouping (e.g., "string", "array")
}

// Candidate represents a single completion suggestion.
type Candidate struct {
	Text    string        // Full filter text to use if selected
	Display string        // Display text for the popup row
	Kind    CandidateKind // Type of candidate
	Detail  string        // Additional detail (value kind or signature)
}

// CandidateKind indicates the type of a candidate.
type CandidateKind int

const (
	CandidatePath     CandidateKind = iota // Document access path
	CandidateFunction                      // Builtin function
)

// Engine wraps a Provider and applies the configured result limit.
type Engine struct {
	provider Provider
	limit    int
}

// NewEngine creates a completion engine with the given provider.
// limit caps the number of returned candidates; 0 means unlimited.
func NewEngine(provider Provider, limit int) *Engine {
	return &Engine{provider: provider, limit: limit}
}

// Suggest returns ranked candidates for the current input, truncated to the
// engine's limit.
func (e *Engine) Suggest(input string, cursor int) []Candidate {
	out := e.provider.Suggest(input, cursor)
	if e.limit > 0 && len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

// Functions returns all builtin functions known to the provider.
func (e *Engine) Functions() []FunctionMetadata {
	return e.provider.DiscoverFunctions()
}

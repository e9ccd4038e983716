// Package query wraps the jq evaluation capability (gojq) with debouncer-
// friendly revision tagging, output isolation, result memoization, and error
// normalization. Evaluation failures are never fatal: every failure mode
// folds into an error Outcome.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/itchyny/gojq"

	"github.com/oakwood-commons/jex/pkg/logger"
)

// memoSize bounds the per-session result cache. The document never changes
// within a session, so outcomes are keyed by filter text alone.
const memoSize = 256

type memoEntry struct {
	value interface{}
	err   string
}

// Evaluator executes jq filters against a fixed document.
type Evaluator struct {
	log  *logr.Logger
	memo *lru.Cache[string, memoEntry]
}

// NewEvaluator creates an evaluator. log may be nil, in which case the
// package falls back to the global logger.
func NewEvaluator(log *logr.Logger) *Evaluator {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	memo, _ := lru.New[string, memoEntry](memoSize)
	return &Evaluator{log: log, memo: memo}
}

// Evaluate runs the filter against the document and returns an Outcome tagged
// with the given revision. Parse errors, compile errors, runtime errors, and
// panics inside the engine all normalize into an error Outcome; anything the
// engine writes to the process standard streams is captured and folded into
// the error message instead of reaching the terminal.
//
// jq filters can emit zero, one, or many values: zero becomes null, one is
// returned as-is, many are collected into an array.
func (e *Evaluator) Evaluate(ctx context.Context, doc interface{}, filter string, revision uint64) Outcome {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "."
	}

	if entry, ok := e.memo.Get(filter); ok {
		if entry.err != "" {
			return Failure(revision, entry.err)
		}
		return Success(revision, entry.value)
	}

	value, err := e.run(ctx, doc, filter)
	if err != nil {
		msg := err.Error()
		e.memo.Add(filter, memoEntry{err: msg})
		return Failure(revision, msg)
	}

	e.memo.Add(filter, memoEntry{value: value})
	return Success(revision, value)
}

// run parses, compiles, and executes the filter under stream capture.
func (e *Evaluator) run(ctx context.Context, doc interface{}, filter string) (value interface{}, err error) {
	diagnostics := captureStreams(func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("query engine panic: %v", r)
			}
		}()
		value, err = e.execute(ctx, doc, filter)
	})

	if err != nil && diagnostics != "" {
		err = fmt.Errorf("%s: %s", err.Error(), strings.TrimSpace(diagnostics))
	} else if diagnostics != "" {
		e.log.V(1).Info("query engine wrote to standard streams", "bytes", len(diagnostics))
	}
	return value, err
}

func (e *Evaluator) execute(ctx context.Context, doc interface{}, filter string) (interface{}, error) {
	parsed, err := gojq.Parse(filter)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid filter at offset %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("cannot compile filter: %w", err)
	}

	var outputs []interface{}
	iter := code.RunWithContext(ctx, doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if runErr, isErr := v.(error); isErr {
			return nil, errors.New(formatRunError(runErr))
		}
		outputs = append(outputs, v)
	}

	switch len(outputs) {
	case 0:
		return nil, nil
	case 1:
		return outputs[0], nil
	default:
		return outputs, nil
	}
}

// formatRunError produces a user-facing message for runtime errors, with
// hints for the common shape mismatches.
//
// Runtime jq errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so string matching is used to decorate the
// display message; no control flow depends on it.
func formatRunError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return errStr + hint
}

package query

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc() interface{} {
	return map[string]interface{}{
		"a": map[string]interface{}{
			"b": float64(1),
			"c": float64(2),
		},
		"items": []interface{}{"x", "y"},
	}
}

func TestEvaluateSimplePath(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), ".a.b", 1)
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, uint64(1), out.Revision)
	assert.Equal(t, float64(1), out.Value)
}

func TestEvaluateIdentity(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), ".", 1)
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, testDoc(), out.Value)
}

func TestEvaluateEmptyFilterFallsBackToIdentity(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), "   ", 1)
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, testDoc(), out.Value)
}

func TestEvaluateIncompleteFilterIsRecoverable(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), ".a.", 2)
	require.Equal(t, StatusError, out.Status)
	assert.Equal(t, uint64(2), out.Revision)
	assert.NotEmpty(t, out.Err)
}

func TestEvaluateRuntimeErrorIsRecoverable(t *testing.T) {
	e := NewEvaluator(nil)

	// Iterating a number is a runtime error, not a parse error.
	out := e.Evaluate(context.Background(), testDoc(), ".a.b[]", 3)
	require.Equal(t, StatusError, out.Status)
	assert.NotEmpty(t, out.Err)
}

func TestEvaluateMultipleOutputsCollected(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), ".items[]", 1)
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, []interface{}{"x", "y"}, out.Value)
}

func TestEvaluateZeroOutputsBecomeNull(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), "empty", 1)
	require.Equal(t, StatusSuccess, out.Status)
	assert.Nil(t, out.Value)
}

func TestEvaluateDeterministic(t *testing.T) {
	e := NewEvaluator(nil)
	doc := testDoc()

	first := e.Evaluate(context.Background(), doc, ".a | keys", 1)
	require.Equal(t, StatusSuccess, first.Status)

	for i := 0; i < 5; i++ {
		again := e.Evaluate(context.Background(), doc, ".a | keys", uint64(i+2))
		assert.Equal(t, first.Value, again.Value)
	}
}

func TestEvaluateMemoizesAcrossRevisions(t *testing.T) {
	e := NewEvaluator(nil)

	first := e.Evaluate(context.Background(), testDoc(), ".a.b", 1)
	second := e.Evaluate(context.Background(), testDoc(), ".a.b", 9)
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, uint64(9), second.Revision)
}

func TestEvaluateHaltError(t *testing.T) {
	e := NewEvaluator(nil)

	out := e.Evaluate(context.Background(), testDoc(), `halt_error`, 1)
	require.Equal(t, StatusError, out.Status)
}

func TestCaptureStreamsRestoresAndCollects(t *testing.T) {
	origOut, origErr := os.Stdout, os.Stderr

	got := captureStreams(func() {
		fmt.Println("diagnostic noise")
	})

	assert.Contains(t, got, "diagnostic noise")
	assert.Equal(t, origOut, os.Stdout)
	assert.Equal(t, origErr, os.Stderr)
}

func TestCaptureStreamsRestoresOnPanic(t *testing.T) {
	origOut, origErr := os.Stdout, os.Stderr

	assert.Panics(t, func() {
		captureStreams(func() {
			fmt.Println("before boom")
			panic("boom")
		})
	})

	assert.Equal(t, origOut, os.Stdout)
	assert.Equal(t, origErr, os.Stderr)
}

func TestFormatRunErrorHints(t *testing.T) {
	msg := formatRunError(fmt.Errorf("cannot iterate over: null"))
	assert.Contains(t, msg, "may not exist")
}

func TestOutcomeConstructors(t *testing.T) {
	p := Pending(3)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, uint64(3), p.Revision)

	s := Success(4, "v")
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, "v", s.Value)

	f := Failure(5, "bad")
	assert.Equal(t, StatusError, f.Status)
	assert.Equal(t, "bad", f.Err)

	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
}

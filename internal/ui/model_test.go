package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jex/internal/query"
	"github.com/oakwood-commons/jex/internal/session"
)

func sampleDoc() interface{} {
	return map[string]interface{}{
		"a": map[string]interface{}{
			"b": float64(1),
			"c": float64(2),
		},
	}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	sess := session.New(sampleDoc(), session.Options{})
	t.Cleanup(sess.Shutdown)

	m := NewModel(sess, ModelConfig{
		SourceName: "test.json",
		NoColor:    true,
		Width:      80,
		Height:     24,
	})
	return &m
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func waitForStatus(t *testing.T, m *Model, want query.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.Update(displayPollMsg{})
		if m.display.Outcome.Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("display never reached status %v", want)
}

func TestTabStartsCompletionAndAppliesFirstCandidate(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.")

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	require.True(t, m.Completing)
	require.Len(t, m.Candidates, 2)
	assert.Equal(t, ".a.b", m.Input.Value())
}

func TestTabCyclesAndWraps(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.")

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, ".a.c", m.Input.Value())

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, ".a.b", m.Input.Value(), "cycling wraps past the last candidate")
}

func TestDownAndShiftTabCycleWhileCompleting(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.")

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, ".a.c", m.Input.Value())

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, ".a.b", m.Input.Value())
}

func TestTypingDismissesCompletion(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.")

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	require.True(t, m.Completing)

	typeText(m, "x")
	assert.False(t, m.Completing)
	assert.Equal(t, ".a.bx", m.Input.Value())
}

func TestTabWithNoMatchSetsGuide(t *testing.T) {
	m := testModel(t)
	typeText(m, ".zzz")

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.False(t, m.Completing)
	assert.Contains(t, m.Guide, `no suggestion found for ".zzz"`)
	assert.Contains(t, m.hintLine(), "no suggestion found")
}

func TestEscQuits(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSuccessfulFilterRendersValue(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.b")
	waitForStatus(t, m, query.StatusSuccess)

	view := m.View()
	assert.Contains(t, fmt.Sprint(view.Content), "1")
	assert.True(t, view.AltScreen)
}

func TestErrorShowsHintAndKeepsLastResult(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.b")
	waitForStatus(t, m, query.StatusSuccess)

	typeText(m, "[]")
	waitForStatus(t, m, query.StatusError)

	assert.Contains(t, m.hintLine(), "error:")

	value, stale := m.displayValue()
	assert.True(t, stale)
	assert.Equal(t, float64(1), value)
}

func TestNoHintSuppressesErrorLine(t *testing.T) {
	m := testModel(t)
	m.NoHint = true
	typeText(m, ".a.b[]")
	waitForStatus(t, m, query.StatusError)

	assert.NotContains(t, m.hintLine(), "error:")
}

func TestPopupListsAllCandidates(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.")

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	lines := m.popupLines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], ".a.b")
	assert.Contains(t, lines[1], ".a.c")
}

func TestTruncateClipsToWindowWidth(t *testing.T) {
	m := testModel(t)
	m.WinWidth = 10

	got := m.truncate(strings.Repeat("x", 40))
	assert.Equal(t, strings.Repeat("x", 9)+"…", got)

	assert.Equal(t, "short", m.truncate("short"))
}

func TestScrollClampsOnKeysAndViewStaysPure(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a")
	waitForStatus(t, m, query.StatusSuccess)

	value, _ := m.displayValue()
	last := strings.Count(m.renderValue(value), "\n")

	for i := 0; i < 50; i++ {
		m.Update(tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl})
	}
	assert.Equal(t, last, m.Scroll, "scrolling past the end clamps to the last line")

	before := m.Scroll
	m.View()
	assert.Equal(t, before, m.Scroll, "rendering must not move the scroll offset")

	for i := 0; i < 50; i++ {
		m.Update(tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl})
	}
	assert.Zero(t, m.Scroll, "scrolling above the top clamps to zero")
}

func TestFinalFilterReflectsPrompt(t *testing.T) {
	m := testModel(t)
	typeText(m, ".a.b")
	assert.Equal(t, ".a.b", m.FinalFilter())
}

func TestStatusBarNamesSourceAndState(t *testing.T) {
	m := testModel(t)
	bar := m.statusBar()
	assert.Contains(t, bar, "jex")
	assert.Contains(t, bar, "test.json")
}

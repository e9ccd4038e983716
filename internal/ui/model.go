// Package ui implements the interactive explorer: a filter prompt over a
// scrollable result pane, with tab completion from the document path index
// and a hint line for evaluation errors.
package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jex/internal/completion"
	"github.com/oakwood-commons/jex/internal/query"
	"github.com/oakwood-commons/jex/internal/session"
)

// displayPollInterval paces the re-read of the session display snapshot.
// Evaluation runs in the session's own worker; the poll only repaints.
const displayPollInterval = 50 * time.Millisecond

// displayPollMsg triggers a repaint from the current session display.
type displayPollMsg struct{}

func pollDisplay() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(displayPollInterval)
		return displayPollMsg{}
	}
}

// ModelConfig carries the render settings the CLI resolved from flags and
// config file.
type ModelConfig struct {
	AppName    string
	SourceName string // file path or "stdin", shown in the status bar
	Indent     int
	NoHint     bool
	NoColor    bool
	Width      int
	Height     int
}

// Model is the Bubble Tea model for the explorer. All document state lives in
// the session; the model holds only presentation state.
type Model struct {
	Sess   *session.Session
	Input  textinput.Model
	Styles Styles

	AppName    string
	SourceName string
	Indent     int
	NoHint     bool
	NoColor    bool

	WinWidth  int
	WinHeight int

	// Completion popup state. Completing is true while Tab is cycling
	// candidates; any other key dismisses the popup.
	Completing bool
	Candidates []completion.Candidate
	Selected   int
	Guide      string

	// Scroll offset into the rendered result, in lines.
	Scroll int

	display  session.Display
	quitting bool
}

// NewModel builds the explorer model around a running session. The session's
// current text seeds the prompt.
func NewModel(sess *session.Session, cfg ModelConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "jq filter (e.g. .items[] | select(.active))"
	ti.CharLimit = 500
	ti.SetWidth(80)
	ti.Prompt = ""
	ti.SetValue(sess.Text())
	ti.SetCursor(len(sess.Text()))
	ti.Focus()

	indent := cfg.Indent
	if indent <= 0 {
		indent = 2
	}
	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = "jex"
	}

	return Model{
		Sess:       sess,
		Input:      ti,
		Styles:     DefaultStyles(cfg.NoColor),
		AppName:    appName,
		SourceName: cfg.SourceName,
		Indent:     indent,
		NoHint:     cfg.NoHint,
		NoColor:    cfg.NoColor,
		WinWidth:   max(cfg.Width, 20),
		WinHeight:  max(cfg.Height, 5),
		display:    sess.CurrentDisplay(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, pollDisplay())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case displayPollMsg:
		if m.quitting {
			return m, nil
		}
		m.display = m.Sess.CurrentDisplay()
		return m, pollDisplay()

	case tea.WindowSizeMsg:
		m.WinWidth = msg.Width
		m.WinHeight = msg.Height
		m.Input.SetWidth(max(msg.Width-promptWidth-1, 10))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	// Check Mod directly for shift+tab; String() is unreliable for messages
	// constructed without keyboard enhancements.
	if msg.Key().Code == tea.KeyTab {
		if msg.Key().Mod&tea.ModShift != 0 {
			keyStr = "shift+tab"
		} else {
			keyStr = "tab"
		}
	}

	switch keyStr {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down":
		if m.Completing {
			m.cycleCompletion(1)
			return m, nil
		}
		if keyStr == "tab" {
			m.startCompletion()
			return m, nil
		}

	case "shift+tab", "up":
		if m.Completing {
			m.cycleCompletion(-1)
			return m, nil
		}

	case "pgdown", "ctrl+d":
		m.setScroll(m.Scroll + m.resultHeight()/2)
		return m, nil

	case "pgup", "ctrl+u":
		m.setScroll(m.Scroll - m.resultHeight()/2)
		return m, nil

	case "enter":
		// Evaluation is continuous; Enter only dismisses the popup.
		m.dismissCompletion()
		return m, nil
	}

	// Any other key leaves completion mode and edits the filter.
	m.dismissCompletion()
	m.Guide = ""
	m.Scroll = 0

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.Sess.OnKeystroke(m.Input.Value())
	return m, cmd
}

// startCompletion requests candidates for the token at the cursor. The first
// candidate is applied immediately, matching the editor behavior of cycling
// on repeated Tab presses.
func (m *Model) startCompletion() {
	text := m.Input.Value()
	cands := m.Sess.RequestCompletion(m.Input.Position())
	if len(cands) == 0 {
		token := lastToken(text)
		m.Guide = fmt.Sprintf("no suggestion found for %q", token)
		return
	}
	m.Completing = true
	m.Candidates = cands
	m.Selected = 0
	m.Guide = ""
	m.applySelected()
}

// cycleCompletion moves the selection by delta, wrapping around, and applies
// the selected candidate to the prompt.
func (m *Model) cycleCompletion(delta int) {
	n := len(m.Candidates)
	if n == 0 {
		m.Completing = false
		return
	}
	m.Selected = (m.Selected + delta + n) % n
	m.applySelected()
}

func (m *Model) applySelected() {
	text := m.Candidates[m.Selected].Text
	m.Input.SetValue(text)
	m.Input.SetCursor(len(text))
	m.Sess.OnKeystroke(text)
}

func (m *Model) dismissCompletion() {
	m.Completing = false
	m.Candidates = nil
	m.Selected = 0
}

// setScroll clamps the scroll offset against the currently displayed value.
// Clamping happens here, on the key path, so the render path stays a pure
// read of model state.
func (m *Model) setScroll(offset int) {
	if offset < 0 {
		offset = 0
	}
	value, _ := m.displayValue()
	last := strings.Count(m.renderValue(value), "\n")
	if offset > last {
		offset = last
	}
	m.Scroll = offset
}

// FinalFilter returns the filter text to hand back to the shell on exit.
func (m *Model) FinalFilter() string {
	return m.Input.Value()
}

const promptWidth = 2

func (m *Model) resultHeight() int {
	// Prompt, hint line, status bar; the popup overlays the result area.
	h := m.WinHeight - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) View() tea.View {
	var b strings.Builder

	b.WriteString(m.promptLine())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	height := m.resultHeight()
	if m.Completing && len(m.Candidates) > 0 {
		popup := m.popupLines()
		for _, line := range popup {
			b.WriteString(line)
			b.WriteString("\n")
		}
		height -= len(popup)
	}
	b.WriteString(m.resultPane(height))
	b.WriteString(m.statusBar())

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m *Model) promptLine() string {
	prompt := m.Styles.Prompt.Render("❯ ")
	filterStyle := m.Styles.FilterOK
	if m.display.Outcome.Status == query.StatusError {
		filterStyle = m.Styles.FilterErr
	}
	return prompt + filterStyle.Render(m.Input.View())
}

// hintLine shows, in priority order, the completion guide, the evaluation
// error, or the index truncation notice. Errors are suppressed with NoHint.
func (m *Model) hintLine() string {
	switch {
	case m.Guide != "":
		return m.truncate(m.Styles.GuideLine.Render(m.Guide))
	case m.display.Outcome.Status == query.StatusError && !m.NoHint:
		return m.truncate(m.Styles.ErrorLine.Render("error: " + m.display.Outcome.Err))
	case m.display.IndexTruncated:
		return m.truncate(m.Styles.GuideLine.Render("document partially indexed; completion may be incomplete"))
	default:
		return ""
	}
}

// popupLines renders the candidate list, one row per candidate.
func (m *Model) popupLines() []string {
	lines := make([]string, 0, len(m.Candidates))
	for i, c := range m.Candidates {
		row := "  " + c.Display
		if c.Detail != "" {
			row += "  " + m.Styles.Detail.Render(c.Detail)
		}
		row = m.truncate(row)
		if i == m.Selected {
			row = m.Styles.SuggestionSel.Render(m.truncate("▸ " + c.Display))
		} else {
			row = m.Styles.Suggestion.Render(row)
		}
		lines = append(lines, row)
	}
	return lines
}

// resultPane renders the current value, or the retained last success under an
// error, clipped to the given height and the window width.
func (m *Model) resultPane(height int) string {
	value, stale := m.displayValue()
	rendered := m.renderValue(value)
	if stale {
		rendered = m.Styles.Stale.Render(rendered)
	}

	lines := strings.Split(rendered, "\n")
	// The displayed value can shrink between a scroll and the next repaint;
	// clamp locally without touching model state.
	offset := m.Scroll
	if offset > len(lines)-1 {
		offset = max(len(lines)-1, 0)
	}
	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for _, line := range lines[offset:end] {
		b.WriteString(m.truncate(line))
		b.WriteString("\n")
	}
	for i := end - offset; i < height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// displayValue picks what the result pane shows. On success the outcome
// value; on error or pending, the retained last success so the pane never
// blanks mid-edit.
func (m *Model) displayValue() (value interface{}, stale bool) {
	d := m.display
	if d.Outcome.Status == query.StatusSuccess {
		return d.Outcome.Value, false
	}
	if d.LastSuccess != nil {
		return d.LastSuccess.Value, true
	}
	return nil, false
}

func (m *Model) renderValue(value interface{}) string {
	b, err := json.MarshalIndent(value, "", strings.Repeat(" ", m.Indent))
	if err != nil {
		return fmt.Sprintf("unrenderable value: %v", err)
	}
	return string(b)
}

func (m *Model) statusBar() string {
	state := m.display.State.String()
	left := fmt.Sprintf(" %s • %s • %s ", m.AppName, m.SourceName, state)
	right := " tab: complete  esc: quit "
	gap := m.WinWidth - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		return m.truncate(m.Styles.StatusBar.Render(left))
	}
	return m.Styles.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// truncate clips a line to the window width, accounting for wide runes.
func (m *Model) truncate(line string) string {
	if m.WinWidth <= 0 {
		return line
	}
	return runewidth.Truncate(line, m.WinWidth, "…")
}

// lastToken extracts the trailing token of the filter text for the guide
// message shown when completion finds nothing.
func lastToken(text string) string {
	idx := strings.LastIndexAny(text, "|(),;: \t\n")
	if idx < 0 {
		return text
	}
	return text[idx+1:]
}

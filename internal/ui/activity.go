package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/citadel/internal/logtail"
)

const (
	activityLines   = 300
	activityRefresh = 2 * time.Second
)

// activityModal tails citadel's own log file.
type activityModal struct {
	path    string
	seq     int
	entries []logtail.Entry
	loaded  bool
	err     error
	follow  bool

	theme    Theme
	width    int
	height   int
	viewport viewport.Model
}

func newActivityModal(path string, seq int, theme Theme, width, height int) activityModal {
	a := activityModal{path: path, seq: seq, follow: true, theme: theme}
	a.resize(width, height)
	return a
}

func (a *activityModal) resize(width, height int) {
	a.width, a.height = width, height
	w, h := modalBodySize(width, height)
	offset := a.viewport.YOffset
	a.viewport = viewport.New(w, h)
	a.viewport.SetContent(a.content(w))
	if a.follow {
		a.viewport.GotoBottom()
	} else {
		a.viewport.SetYOffset(offset)
	}
}

// Update implements Modal.
func (a activityModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case activityMsg:
		a.loaded = true
		a.err = msg.err
		if msg.err == nil {
			a.entries = msg.entries
		}
		a.resize(a.width, a.height)
		return a, nil, false

	case activityTickMsg:
		if msg.seq != a.seq {
			return a, nil, false
		}
		return a, tea.Batch(readActivityCmd(a.path, activityLines), activityTickCmd(activityRefresh, a.seq)), false

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Activity), key.Matches(msg, keys.Quit):
			return a, nil, true
		case key.Matches(msg, keys.Down):
			a.viewport.LineDown(1)
			a.follow = a.viewport.AtBottom()
		case key.Matches(msg, keys.Up):
			a.viewport.LineUp(1)
			a.follow = false
		case key.Matches(msg, keys.Top):
			a.viewport.GotoTop()
			a.follow = false
		case key.Matches(msg, keys.Bottom):
			a.viewport.GotoBottom()
			a.follow = true
		}
	}
	return a, nil, false
}

// View implements Modal.
func (a activityModal) View(theme Theme, width, height int) string {
	w, _ := modalSize(width, height)
	title := "Activity " + truncateMiddle(a.path, maxInt(w-20, 10))
	footer := "esc/L close  j/k scroll  G follow"
	if a.follow {
		footer = "following  " + footer
	}
	return renderModal(theme, title, a.viewport.View(), footer, width, height)
}

func (a activityModal) content(width int) string {
	styles := a.theme.Styles().WithBackground(a.theme.SurfaceAlt)
	bg := NewBgStyle(a.theme.SurfaceAlt)

	if a.err != nil {
		return bg.Render(truncate("Could not read log: "+a.err.Error(), width), styles.DangerText)
	}
	if !a.loaded {
		return bg.Render("Reading log...", styles.MutedText)
	}
	if len(a.entries) == 0 {
		return bg.Render("No activity yet", styles.FaintText)
	}

	lines := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		lines = append(lines, a.formatEntry(e, width, styles, bg))
	}
	return strings.Join(lines, "\n")
}

func (a activityModal) formatEntry(e logtail.Entry, width int, styles Styles, bg BgStyle) string {
	if e.Level == "" {
		return bg.Render(truncate(e.Message, width), styles.FaintText)
	}

	var b strings.Builder
	used := 0
	if !e.Time.IsZero() {
		ts := e.Time.Local().Format("15:04:05")
		b.WriteString(bg.Render(ts, styles.FaintText) + bg.Space())
		used += len(ts) + 1
	}
	level := padRight(e.Level, 5)
	b.WriteString(bg.Render(level, a.levelStyle(e.Level, styles)) + bg.Space())
	used += len(level) + 1

	rest := e.Message
	for _, attr := range e.Attrs {
		rest += " " + attr.Key + "=" + attr.Value
	}
	remaining := maxInt(width-used, 1)
	msgLen := lipgloss.Width(e.Message)
	text := truncate(rest, remaining)
	if lipgloss.Width(text) <= msgLen {
		b.WriteString(bg.Render(text, styles.Text))
		return b.String()
	}
	b.WriteString(bg.Render(e.Message, styles.Text))
	b.WriteString(bg.Render(strings.TrimPrefix(text, e.Message), styles.MutedText))
	return b.String()
}

func (a activityModal) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText.Bold(true)
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.SuccessText
	}
}

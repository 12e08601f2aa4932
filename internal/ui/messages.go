package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/logtail"
	"github.com/five82/citadel/internal/rickmorty"
)

// Messages

// refreshMsg asks the model to fetch the current page.
type refreshMsg struct{}

type pageMsg struct {
	gen  uint64
	page rickmorty.Page
	err  error
}

type characterMsg struct {
	id        int
	character rickmorty.Character
	err       error
}

// debounceMsg fires after the name input has been idle. Only the message
// carrying the latest seq is acted on.
type debounceMsg struct {
	seq   int
	value string
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// activityTickMsg refreshes the activity overlay opened as seq.
type activityTickMsg struct {
	seq int
}

type shareMsg struct {
	text string
	err  error
}

// Commands

func refreshCmd() tea.Msg {
	return refreshMsg{}
}

func fetchPageCmd(ctx context.Context, svc Catalog, gen uint64, f filter.State, reload bool) tea.Cmd {
	return func() tea.Msg {
		if reload {
			svc.Invalidate(ctx, f)
		}
		page, err := svc.Characters(ctx, f)
		return pageMsg{gen: gen, page: page, err: err}
	}
}

func fetchCharacterCmd(ctx context.Context, svc Catalog, id int) tea.Cmd {
	return func() tea.Msg {
		c, err := svc.Character(ctx, id)
		return characterMsg{id: id, character: c, err: err}
	}
}

func debounceCmd(d time.Duration, seq int, value string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq, value: value}
	})
}

func readActivityCmd(path string, lines int) tea.Cmd {
	return func() tea.Msg {
		raw, err := logtail.Read(path, lines)
		return activityMsg{entries: logtail.ParseLines(raw), err: err}
	}
}

func activityTickCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return activityTickMsg{seq: seq}
	})
}

func shareCmd(text string, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		return shareMsg{text: text, err: write(text)}
	}
}

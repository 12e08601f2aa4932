package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/rickmorty"
)

// renderHeader renders the status bar: result count, page position, active
// filters and the loading or error state. Like the other bars it is clipped
// to one line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	snap := m.snapshot

	parts := []string{bg.Render("citadel", styles.Logo)}

	if snap.HasPage {
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d", snap.Page.Info.Count), styles.Text)+bg.Space()+
				bg.Render("characters", styles.MutedText))
		parts = append(parts,
			bg.Render("Page", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d/%d", snap.Filter.Page, snap.TotalPages()), styles.Text))
	}

	switch {
	case snap.Loading:
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render("Loading", styles.WarningText))
	case snap.LastError != nil:
		label := describeError(snap.LastError)
		if snap.IsOffline() {
			label = "Offline: " + label
		}
		if snap.HasPage {
			label += " (showing previous results)"
		}
		parts = append(parts, bg.Render(label, styles.DangerText))
	}

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(m.flash, style))
	}

	// Filters come last so a clipped header still shows the fetch state.
	if active := snap.Filter.Describe(); len(active) > 0 {
		parts = append(parts, bg.Render(truncate(strings.Join(active, " · "), 60), styles.InfoText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(parts, sep))
}

// describeError turns a fetch error into a short banner.
func describeError(err error) string {
	var apiErr *rickmorty.APIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("API error %d", apiErr.Status)
	case errors.Is(err, rickmorty.ErrAPI):
		return "API error"
	default:
		return "Network error"
	}
}

// renderFilterBar shows the name input and the three selectors.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	f := m.snapshot.Filter

	nameLabel := styles.MutedText
	if m.editingName {
		nameLabel = styles.AccentText.Bold(true)
	}
	name := m.nameInput.View()

	selector := func(label, value string, set bool) string {
		style := styles.FaintText
		if set {
			style = styles.Text
		}
		return bg.Render(label, styles.MutedText) + bg.Space() + bg.Render(value, style)
	}

	parts := []string{
		bg.Render("Name", nameLabel) + bg.Space() + name,
		selector("Status", filter.Label(filter.StatusOptions, f.Status), f.Status != ""),
		selector("Gender", filter.Label(filter.GenderOptions, f.Gender), f.Gender != ""),
		selector("Species", filter.Label(filter.SpeciesOptions, f.Species), f.Species != ""),
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Padding(0, 1).
		Width(m.width).
		MaxHeight(1).
		Render(strings.Join(parts, bg.Spaces(3)))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	if m.editingName {
		commands = []cmd{
			{"enter", "Apply"},
			{"esc", "Done"},
		}
	} else {
		commands = []cmd{
			{"/", "Name"},
			{"s", "Status"},
			{"x", "Gender"},
			{"c", "Species"},
			{"r", "Reset"},
			{"n/p", "Page"},
			{"enter", "Detail"},
			{"y", "Share"},
			{"L", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}

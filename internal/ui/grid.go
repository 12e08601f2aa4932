package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/citadel/internal/rickmorty"
)

const (
	cardWidth  = 30 // outer width including border
	cardHeight = 6  // outer height including border
	cardGap    = 1
)

// gridColumns returns how many cards fit side by side in width.
func gridColumns(width int) int {
	return maxInt((width+cardGap)/(cardWidth+cardGap), 1)
}

// gridRows returns how many card rows fit in height.
func gridRows(height int) int {
	return maxInt(height/cardHeight, 1)
}

// moveCursor moves the cursor by dx cards and dy rows in a grid of count
// cards laid out in cols columns. Moves that would leave the grid stop at its
// edge.
func moveCursor(cursor, count, cols, dx, dy int) int {
	if count <= 0 {
		return 0
	}
	cols = maxInt(cols, 1)
	cursor = clamp(cursor, 0, count-1)
	if dx != 0 {
		row := cursor / cols
		col := clamp(cursor%cols+dx, 0, cols-1)
		return clamp(row*cols+col, 0, count-1)
	}
	if dy != 0 {
		next := cursor + dy*cols
		if next < 0 {
			return cursor % cols
		}
		if next >= count {
			lastRow := (count - 1) / cols
			if cursor/cols == lastRow {
				return cursor
			}
			return count - 1
		}
		return next
	}
	return cursor
}

// scrollTop keeps the cursor's row within the visible window starting at top.
func scrollTop(cursor, cols, rows, top int) int {
	cols = maxInt(cols, 1)
	rows = maxInt(rows, 1)
	row := cursor / cols
	if row < top {
		return row
	}
	if row >= top+rows {
		return row - rows + 1
	}
	return maxInt(top, 0)
}

// renderGrid lays out the current page as cards.
func (m Model) renderGrid(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	results := m.snapshot.Page.Results

	if m.snapshot.Page.Empty() {
		var msg string
		switch {
		case !m.snapshot.HasPage && m.snapshot.LastError != nil:
			msg = bg.Render("Could not load characters", styles.DangerText)
		case !m.snapshot.HasPage:
			msg = bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
				bg.Render("Loading characters...", styles.MutedText)
		default:
			msg = bg.Render("No characters found", styles.MutedText)
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg,
			lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
	}

	cols := gridColumns(width)
	rows := gridRows(height)
	start := m.gridTop * cols
	end := minInt(start+rows*cols, len(results))

	var rowViews []string
	for i := start; i < end; i += cols {
		var cards []string
		for j := i; j < minInt(i+cols, end); j++ {
			if len(cards) > 0 {
				cards = append(cards, bg.Spaces(cardGap))
			}
			focused := j == m.cursor
			open := m.snapshot.DetailOpen && results[j].ID == m.snapshot.SelectedID
			cards = append(cards, m.renderCard(results[j], focused, open))
		}
		rowViews = append(rowViews, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	grid := strings.Join(rowViews, "\n")
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, grid,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
}

// renderCard draws one character: name, status dot with species, gender and
// last known location.
func (m Model) renderCard(c rickmorty.Character, focused, open bool) string {
	bgColor := m.theme.SurfaceAlt
	borderColor := m.theme.Border
	if focused {
		bgColor = m.theme.FocusBg
		borderColor = m.theme.BorderFocus
	}
	if open {
		borderColor = m.theme.Accent
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	inner := cardWidth - 4

	nameStyle := styles.Text.Bold(true)
	if focused {
		nameStyle = styles.AccentText.Bold(true)
	}
	locStyle := styles.MutedText
	if !c.Location.Known() {
		locStyle = styles.FaintText
	}
	lines := []string{
		bg.Render(truncate(c.Name, inner), nameStyle),
		bg.Dot(m.theme.StatusColor(c.LifeStatus().String())) + bg.Space() +
			bg.Render(truncate(orDash(c.Status)+" - "+orDash(c.Species), inner-2), styles.Text),
		bg.Render(truncate(orDash(c.Gender), inner), styles.MutedText),
		bg.Render(truncate(orDash(c.Location.Name), inner), locStyle),
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(cardWidth - 2).
		Render(strings.Join(lines, "\n"))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

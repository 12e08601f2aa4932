package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

const (
	modalMaxWidth  = 76
	modalMaxHeight = 28
)

// modalSize returns the outer box size for a screen of width x height.
func modalSize(width, height int) (int, int) {
	w := clamp(width-4, 20, modalMaxWidth)
	h := clamp(height-2, 6, modalMaxHeight)
	return w, h
}

// modalBodySize returns the viewport size inside a modal box: borders,
// horizontal padding and the footer line are excluded.
func modalBodySize(width, height int) (int, int) {
	w, h := modalSize(width, height)
	return maxInt(w-4, 1), maxInt(h-3, 1)
}

// renderModal draws a titled box centered on the screen.
func renderModal(theme Theme, title, body, footer string, width, height int) string {
	w, h := modalSize(width, height)
	bg := NewBgStyle(theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.BorderFocus))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Text))
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Faint))

	innerWidth := w - 2
	title = truncate(title, maxInt(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("╭", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("╮", borderStyle)
	bottom := bg.Render("╰", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("╯", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		Padding(0, 1).
		Background(lipgloss.Color(theme.SurfaceAlt))

	bodyLines := strings.Split(body, "\n")
	rows := h - 2
	lines := make([]string, 0, rows)
	for i := 0; i < rows-1; i++ {
		var line string
		if i < len(bodyLines) {
			line = bodyLines[i]
		}
		lines = append(lines, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	lines = append(lines, bg.Render("│", borderStyle)+
		contentStyle.Render(footerStyle.Background(lipgloss.Color(theme.SurfaceAlt)).Render(footer))+
		bg.Render("│", borderStyle))

	box := top + "\n" + strings.Join(lines, "\n") + "\n" + bottom
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

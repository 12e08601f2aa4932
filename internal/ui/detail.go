package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/citadel/internal/rickmorty"
)

// detailModal shows one character. It opens with whatever the list already
// knows about the character and is replaced by the fetched record.
type detailModal struct {
	id        int
	character rickmorty.Character
	hasData   bool
	loading   bool
	err       error

	theme    Theme
	width    int
	height   int
	viewport viewport.Model
}

func newDetailModal(id int, preview *rickmorty.Character, theme Theme, width, height int) detailModal {
	d := detailModal{id: id, loading: true, theme: theme}
	if preview != nil {
		d.character = *preview
		d.hasData = true
	}
	d.resize(width, height)
	return d
}

func (d *detailModal) resize(width, height int) {
	d.width, d.height = width, height
	w, h := modalBodySize(width, height)
	offset := d.viewport.YOffset
	d.viewport = viewport.New(w, h)
	d.viewport.SetContent(d.content(w))
	d.viewport.SetYOffset(offset)
}

func (d *detailModal) refresh() {
	d.resize(d.width, d.height)
}

// Update implements Modal.
func (d detailModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case characterMsg:
		if msg.id != d.id {
			return d, nil, false
		}
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
		} else {
			d.character = msg.character
			d.hasData = true
			d.err = nil
		}
		d.refresh()
		return d, nil, false

	case tea.WindowSizeMsg:
		d.resize(msg.Width, msg.Height)
		return d, nil, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Detail):
			return d, nil, true
		case key.Matches(msg, keys.Down):
			d.viewport.LineDown(1)
		case key.Matches(msg, keys.Up):
			d.viewport.LineUp(1)
		case key.Matches(msg, keys.Top):
			d.viewport.GotoTop()
		case key.Matches(msg, keys.Bottom):
			d.viewport.GotoBottom()
		}
	}
	return d, nil, false
}

// View implements Modal.
func (d detailModal) View(theme Theme, width, height int) string {
	title := "Character"
	if d.hasData {
		title = d.character.Name
	}
	footer := "enter/esc close  j/k scroll"
	if d.loading && d.hasData {
		footer = "refreshing...  " + footer
	}
	return renderModal(theme, title, d.viewport.View(), footer, width, height)
}

func (d detailModal) content(width int) string {
	styles := d.theme.Styles().WithBackground(d.theme.SurfaceAlt)
	bg := NewBgStyle(d.theme.SurfaceAlt)

	if !d.hasData {
		if d.err != nil {
			return bg.Render(truncate("Could not load character: "+d.err.Error(), width), styles.DangerText)
		}
		return bg.Render("Loading character...", styles.MutedText)
	}

	c := d.character
	labelWidth := 10
	valueWidth := maxInt(width-labelWidth-1, 8)
	row := func(label, value string) string {
		return bg.Render(padRight(label, labelWidth), styles.MutedText) + bg.Space() +
			bg.Render(truncate(orDash(value), valueWidth), styles.Text)
	}

	var lines []string
	lines = append(lines, bg.Render(truncate(c.Name, width), styles.Text.Bold(true)))
	lines = append(lines,
		bg.Dot(d.theme.StatusColor(c.LifeStatus().String()))+bg.Space()+
			bg.Render(orDash(c.Status)+" - "+orDash(c.Species), styles.Text))
	lines = append(lines, "")
	lines = append(lines, row("Type", c.Type))
	lines = append(lines, row("Gender", c.Gender))
	lines = append(lines, row("Origin", c.Origin.Name))
	lines = append(lines, row("Location", c.Location.Name))
	if created := c.CreatedAt(); !created.IsZero() {
		lines = append(lines, row("Created", created.Format("2 Jan 2006")))
	} else {
		lines = append(lines, row("Created", ""))
	}
	lines = append(lines, row("Episodes", strconv.Itoa(len(c.Episode))))
	for _, chunk := range wrapEpisodes(c.EpisodeNumbers(), valueWidth) {
		lines = append(lines, bg.Spaces(labelWidth+1)+bg.Render(chunk, styles.FaintText))
	}
	lines = append(lines, "")
	lines = append(lines, row("Image", c.Image))
	lines = append(lines, row("ID", strconv.Itoa(c.ID)))

	if d.err != nil {
		lines = append(lines, "")
		lines = append(lines, bg.Render("Refresh failed: "+truncate(d.err.Error(), width-16), styles.DangerText))
	}
	return strings.Join(lines, "\n")
}

// wrapEpisodes formats episode numbers as comma separated lines no wider
// than width.
func wrapEpisodes(numbers []int, width int) []string {
	if len(numbers) == 0 || width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for i, n := range numbers {
		token := fmt.Sprintf("#%d", n)
		if i < len(numbers)-1 {
			token += ","
		}
		if cur.Len() > 0 && lipgloss.Width(cur.String())+1+len(token) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(token)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

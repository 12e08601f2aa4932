package app

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/rickmorty"
)

// pageLister fetches one page of characters.
type pageLister interface {
	Characters(ctx context.Context, f filter.State) (rickmorty.Page, error)
}

// PrintOnce fetches the page for f and writes it to w as a table.
func PrintOnce(ctx context.Context, w io.Writer, svc pageLister, f filter.State) error {
	page, err := svc.Characters(ctx, f)
	if err != nil {
		return fmt.Errorf("fetch characters: %w", err)
	}
	if page.Empty() {
		_, err := fmt.Fprintln(w, "No characters found")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Status", "Species", "Gender", "Location")
	for _, c := range page.Results {
		t.Row(strconv.Itoa(c.ID), c.Name, dash(c.Status), dash(c.Species), dash(c.Gender), dash(c.Location.Name))
	}

	pages := page.Info.Pages
	if pages < 1 {
		pages = 1
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Page %d of %d, %d characters\n", f.Normalize().Page, pages, page.Info.Count)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package tableview

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/happyjobs/happyctl/internal/admin/resources"
	"github.com/happyjobs/happyctl/internal/theme"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultWidth  = 120
	defaultHeight = 24
	minColumn     = 4
)

type fdProvider interface {
	Fd() uintptr
}

// resolveTerminal reports the size of out and whether it is a terminal.
// Non-terminal writers get a fixed default size.
func resolveTerminal(out io.Writer) (width int, height int, isTTY bool) {
	width, height = defaultWidth, defaultHeight

	fp, ok := out.(fdProvider)
	if !ok {
		return width, height, false
	}
	fd := fp.Fd()
	if fd == ^uintptr(0) {
		return width, height, false
	}
	isTTY = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if w, h, err := term.GetSize(int(fd)); err == nil {
		width, height = w, h
	}
	return width, height, isTTY
}

// fitColumns shrinks the widest columns until the table fits in width.
func fitColumns(cols []resources.Column, width int) []table.Column {
	out := make([]table.Column, len(cols))
	total := 0
	for i, c := range cols {
		out[i] = table.Column{Title: c.Title, Width: max(c.Width, runewidth.StringWidth(c.Title), minColumn)}
		// cell padding
		total += out[i].Width + 2
	}
	for width > 0 && total > width {
		widest := 0
		for i := range out {
			if out[i].Width > out[widest].Width {
				widest = i
			}
		}
		if out[widest].Width <= minColumn {
			break
		}
		out[widest].Width--
		total--
	}
	return out
}

// toRows truncates cells to their column width.
func toRows(cols []table.Column, rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		row := make(table.Row, len(cols))
		for j := range cols {
			if j < len(r) {
				row[j] = runewidth.Truncate(r[j], cols[j].Width, "…")
			}
		}
		out[i] = row
	}
	return out
}

func tableStyles(p theme.Palette, focused bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Color(theme.ColorBorder)).
		BorderBottom(true).
		Bold(true).
		Foreground(p.Color(theme.ColorPrimary))
	s.Cell = s.Cell.Foreground(p.Color(theme.ColorTextPrimary))
	if focused {
		s.Selected = s.Selected.
			Foreground(p.Color(theme.ColorPrimaryText)).
			Background(p.Color(theme.ColorPrimary)).
			Bold(false)
	} else {
		s.Selected = s.Cell
	}
	return s
}

func boxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Color(theme.ColorBorder)).
		Padding(0, 1)
}

// WriteTable prints one page of a resource table without any interaction,
// for pipes and text output.
func WriteTable(out io.Writer, title string, cols []resources.Column, v resources.View) error {
	if out == nil {
		return errors.New("tableview: output stream is not available")
	}
	width, _, _ := resolveTerminal(out)
	p := theme.Current()

	var sections []string
	if title != "" {
		sections = append(sections, p.Foreground(theme.ColorPrimary).Bold(true).Render(title))
	}
	if len(v.Rows) == 0 {
		sections = append(sections, "No records found.")
		_, err := fmt.Fprintln(out, strings.Join(sections, "\n"))
		return err
	}

	columns := fitColumns(cols, width-4)
	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(toRows(columns, v.Rows)),
		table.WithStyles(tableStyles(p, false)),
		// header plus its border
		table.WithHeight(len(v.Rows)+2),
	)
	tbl.Blur()
	sections = append(sections,
		boxStyle(p).Render(tbl.View()),
		fmt.Sprintf("Page %s · %d total", v.Indicator, v.TotalCount))
	_, err := fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

// WriteMenu prints the resource list shown on the viewer home screen.
func WriteMenu(out io.Writer) error {
	p := theme.Current()
	var b strings.Builder
	b.WriteString(p.Foreground(theme.ColorPrimary).Bold(true).Render("HappyJobs admin"))
	b.WriteString("\n")
	for _, k := range resources.Kinds() {
		fmt.Fprintf(&b, "  %-14s %s\n", k.String(), k.Description())
	}
	_, err := io.WriteString(out, b.String())
	return err
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"mercator-hq/textstudio/pkg/providers"
	"mercator-hq/textstudio/pkg/render"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText renders markdown on a terminal and prints it raw otherwise.
	FormatText OutputFormat = "text"
	// FormatMarkdown always prints raw markdown.
	FormatMarkdown OutputFormat = "markdown"
	// FormatJSON prints JSON.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unknown format %q (use text, markdown or json)", s))
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w, or render.DefaultWordWrap.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return render.DefaultWordWrap
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return render.DefaultWordWrap
	}
	return width
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Printer writes command results.
type Printer struct {
	w        io.Writer
	format   OutputFormat
	terminal bool
	renderer *render.TerminalRenderer
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	p := &Printer{
		w:        w,
		format:   format,
		terminal: IsTerminal(w),
	}
	if p.terminal && format == FormatText {
		p.renderer = render.NewTerminalRenderer(TerminalWidth(w))
	}
	return p
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Completion writes a completion result.
func (p *Printer) Completion(result *providers.CompletionResult) error {
	switch p.format {
	case FormatJSON:
		return p.JSON(result)
	case FormatText:
		if p.renderer != nil {
			_, err := io.WriteString(p.w, p.renderer.Render(result.Content))
			return err
		}
	}

	_, err := fmt.Fprintln(p.w, result.Content)
	return err
}

// Table writes rows under headers. On a terminal the table is drawn with
// lipgloss; otherwise columns are tab-aligned.
func (p *Printer) Table(headers []string, rows [][]string) error {
	if p.format == FormatJSON {
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			record := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					record[strings.ToLower(h)] = row[i]
				}
			}
			records = append(records, record)
		}
		return p.JSON(records)
	}

	if !p.terminal {
		tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

// Status writes a one-line verdict, colored on a terminal.
func (p *Printer) Status(ok bool, message string) error {
	if p.format == FormatJSON {
		return p.JSON(map[string]any{"success": ok, "message": message})
	}

	mark := "✓"
	style := okStyle
	if !ok {
		mark = "✗"
		style = failStyle
	}
	if p.terminal {
		mark = style.Render(mark)
	}

	_, err := fmt.Fprintf(p.w, "%s %s\n", mark, message)
	return err
}

// Println writes a line of plain text. JSON output suppresses it.
func (p *Printer) Println(a ...any) {
	if p.format == FormatJSON {
		return
	}
	fmt.Fprintln(p.w, a...)
}

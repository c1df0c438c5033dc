package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Kind selects the style of a status line.
type Kind int

const (
	Info Kind = iota
	OK
	Warn
	Error
)

func (k Kind) label() string {
	switch k {
	case OK:
		return "OK"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k Kind) style() lipgloss.Style {
	switch k {
	case OK:
		return styles.ok
	case Warn:
		return styles.warn
	case Error:
		return styles.err
	default:
		return styles.help
	}
}

// Printer writes human-facing output.
type Printer struct {
	w        io.Writer
	colorize bool
}

// NewPrinter colorizes only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, colorize: ShouldColorize(w)}
}

// NewPlainPrinter never colorizes.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Panel writes body inside a rounded, titled border.
func (p *Printer) Panel(title, body string, border lipgloss.Color) {
	fmt.Fprintln(p.w, RenderPanel(title, body, border, p.colorize))
}

// Status writes a single "[KIND] message" line.
func (p *Printer) Status(kind Kind, message string) {
	fmt.Fprintln(p.w, RenderStatus(kind, message, p.colorize))
}

// Println writes a plain line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// RenderPanel renders a titled panel. Without color it is a "== title ==" header over the body.
func RenderPanel(title, body string, border lipgloss.Color, colorize bool) string {
	title = strings.TrimSpace(title)
	if !colorize {
		header := fmt.Sprintf("== %s ==", title)
		return header + "\n" + strings.Repeat("-", len(header)) + "\n" + body
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	return box.Render(styles.title.Render(title) + "\n\n" + body)
}

// RenderStatus renders a status line, colored by kind when colorize is set.
func RenderStatus(kind Kind, message string, colorize bool) string {
	line := fmt.Sprintf("[%s] %s", kind.label(), message)
	if colorize {
		return kind.style().Render(line)
	}
	return line
}

// Bullets joins items as "• item" lines.
func Bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

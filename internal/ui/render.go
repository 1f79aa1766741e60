package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/idilsaglam/todolist/internal/model"
)

// ColorMode selects when output is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // colour when the output is a terminal
	ColorAlways ColorMode = "always" // colour even when piped
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts auto, always and never (plus a few boolean spellings).
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "true", "on", "yes":
		return ColorAlways, nil
	case "never", "false", "off", "no":
		return ColorNever, nil
	}
	return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// Renderer writes everything the user sees. Completed and pending todos are
// told apart by colour when colour is on; otherwise output is plain text.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	lg     *lipgloss.Renderer
	theme  Theme
}

// NewRenderer builds a renderer writing to out, with failures on errOut.
func NewRenderer(out, errOut io.Writer, theme Theme, mode ColorMode) *Renderer {
	lg := lipgloss.NewRenderer(out)
	switch {
	case theme.Plain || mode == ColorNever:
		lg.SetColorProfile(termenv.Ascii)
	case mode == ColorAlways:
		lg.SetColorProfile(termenv.ANSI256)
	}
	return &Renderer{out: out, errOut: errOut, lg: lg, theme: theme}
}

// Out is the writer normal output goes to.
func (r *Renderer) Out() io.Writer { return r.out }

// Theme returns the active theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Style returns a fresh style bound to this renderer's colour profile.
func (r *Renderer) Style() lipgloss.Style { return r.lg.NewStyle() }

func (r *Renderer) fg(c lipgloss.TerminalColor) lipgloss.Style { return r.lg.NewStyle().Foreground(c) }

// Display prints one line per todo, or a single notice when there are none.
func (r *Renderer) Display(todos []model.Todo) {
	for _, ln := range r.todoLines(todos) {
		fmt.Fprintln(r.out, ln)
	}
}

func (r *Renderer) todoLines(todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{r.fg(r.theme.Pending).Render("No todos found.")}
	}
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, r.TodoLine(t))
	}
	return out
}

// TodoLine renders a single todo, coloured by completion state.
func (r *Renderer) TodoLine(t model.Todo) string {
	box, style := r.theme.BoxUnchecked, r.fg(r.theme.Pending)
	if t.Completed {
		box, style = r.theme.BoxChecked, r.fg(r.theme.Success)
	}
	return style.Render(fmt.Sprintf("%s ID: %d | Task: %s | Category: %s | Deadline: %s | Completed: %t",
		box, t.ID, t.Task, t.Category, t.DeadlineString(), t.Completed))
}

// Overview prints the whole collection in a panel under a header with
// done/pending counts and a progress bar.
func (r *Renderer) Overview(c model.Collection) {
	d, p := c.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		r.Style().Bold(true).Foreground(r.theme.Title).Render("Todos"),
		r.fg(r.theme.Success).Render(r.theme.SymDone), d,
		r.fg(r.theme.Pending).Render(r.theme.SymPending), p,
		r.fg(r.theme.Accent).Render("Total"), c.Len(),
	)

	lines := []string{header, r.Progress(d, d+p, 28), ""}
	lines = append(lines, r.todoLines(c.Todos())...)
	r.Panel(lines)
}

// MenuItem is one numbered menu entry.
type MenuItem struct {
	Key   string
	Label string
}

// Menu prints the numbered command menu.
func (r *Renderer) Menu(title string, items []MenuItem) {
	lines := []string{r.Style().Bold(true).Foreground(r.theme.Title).Render(title), ""}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s %s",
			r.fg(r.theme.Accent).Render(it.Key+"."), it.Label))
	}
	r.Panel(lines)
}

// Panel draws a framed box using the current theme.
func (r *Renderer) Panel(lines []string) {
	border := r.Style().
		Border(r.theme.Border).
		BorderForeground(r.theme.Muted).
		Padding(0, 1)
	fmt.Fprintln(r.out, border.Render(strings.Join(lines, "\n")))
}

// Notice prints an informational line in the pending colour.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, r.fg(r.theme.Pending).Render(msg))
}

// OK prints a success line.
func (r *Renderer) OK(msg string) {
	fmt.Fprintln(r.out, r.fg(r.theme.Success).Render(r.theme.SymDone+" "+msg))
}

// Fail prints an error line to the error writer.
func (r *Renderer) Fail(msg string) {
	fmt.Fprintln(r.errOut, r.fg(r.theme.Error).Bold(true).Render(r.theme.SymFail+" "+msg))
}

// Progress renders done/total as a bar of at least five cells followed by
// the percentage. Filled cells take the success colour, the rest are muted.
func (r *Renderer) Progress(done, total, width int) string {
	width = max(width, 5)
	ratio := 0.0
	if total > 0 {
		ratio = min(float64(done)/float64(total), 1)
	}
	filled := int(ratio * float64(width))
	return fmt.Sprintf("%s%s %3d%%",
		r.fg(r.theme.Success).Render(strings.Repeat("█", filled)),
		r.fg(r.theme.Muted).Render(strings.Repeat("░", width-filled)),
		int(ratio*100))
}

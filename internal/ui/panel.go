package ui

import (
	"fmt"
	"io"
	"strings"
)

// ProgressBar renders a bar with the done/total ratio as a percentage.
func (t Theme) ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Header is the one-line summary shown above the list.
func (t Theme) Header(done, pending int) string {
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), done+pending,
	)
}

// Panel frames lines in the theme's border.
func (t Theme) Panel(lines []string) string {
	return t.Frame.Render(strings.Join(lines, "\n"))
}

// OK prints a success line to w.
func (t Theme) OK(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line to w.
func (t Theme) Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Hint prints a muted line to w.
func (t Theme) Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Muted.Render(msg))
}

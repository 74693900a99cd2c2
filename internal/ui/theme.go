package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// All renderers in this package pull from a Theme.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Help                                lipgloss.Style
	CardBox, CompletedCard, Frame, Toast          lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymOK, SymFail           string
	BarFull, BarEmpty        string
}

// NewTheme builds the named theme (classic, neon or mono) for output going to
// w. noColor strips all colors; mono implies it.
func NewTheme(name string, w io.Writer, noColor bool) Theme {
	r := lipgloss.NewRenderer(w)
	name = strings.ToLower(name)
	if noColor || name == "mono" {
		r.SetColorProfile(termenv.Ascii)
	}
	s := r.NewStyle

	t := Theme{
		Name:     name,
		Title:    s().Bold(true),
		Muted:    s().Faint(true),
		Accent:   s().Foreground(lipgloss.Color("12")),
		Success:  s().Foreground(lipgloss.Color("42")),
		Error:    s().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  s().Foreground(lipgloss.Color("214")),
		Selected: s().Bold(true).Reverse(true),
		Help:     s().Faint(true),

		CardBox: s().Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("250")).
			Padding(0, 1),
		CompletedCard: s().Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("160")).
			Background(lipgloss.Color("160")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),
		Frame: s().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		Toast: s().Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("28")).
			Padding(0, 1),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		SymOK: "✔", SymFail: "✖",
		BarFull: "█", BarEmpty: "░",
	}

	switch name {
	case "neon":
		t.Title = s().Bold(true).Foreground(lipgloss.Color("13"))
		t.Accent = s().Foreground(lipgloss.Color("14"))
		t.Pending = s().Foreground(lipgloss.Color("11"))
		t.BoxUnchecked, t.BoxChecked = "◻", "◼"
		t.CardBox = t.CardBox.Border(lipgloss.RoundedBorder())
		t.CompletedCard = t.CompletedCard.Border(lipgloss.RoundedBorder())
	case "mono":
		t.BoxUnchecked, t.BoxChecked = "[ ]", "[x]"
		t.SymDone, t.SymPending = "x", "-"
		t.SymOK, t.SymFail = "ok:", "error:"
		t.BarFull, t.BarEmpty = "#", "."
		t.CardBox = t.CardBox.Border(lipgloss.ASCIIBorder())
		t.CompletedCard = t.CompletedCard.Border(lipgloss.ASCIIBorder())
		t.Frame = t.Frame.Border(lipgloss.ASCIIBorder())
	}
	return t
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tadacards/internal/model"
)

// SegmentWidth is how many runes of a todo's text go in each card column.
const SegmentWidth = 25

// CardHeight is the number of terminal rows every card occupies, borders
// included.
const CardHeight = 5

// cardColumns is the number of columns a card splits its text across; the
// last column takes whatever is left.
const cardColumns = 4

// Segments splits text into cardColumns pieces of SegmentWidth runes, the
// last piece holding the remainder. Missing pieces are empty.
func Segments(text string) []string {
	r := []rune(text)
	out := make([]string, cardColumns)
	for i := 0; i < cardColumns; i++ {
		lo := i * SegmentWidth
		if lo >= len(r) {
			break
		}
		hi := lo + SegmentWidth
		if i == cardColumns-1 || hi > len(r) {
			hi = len(r)
		}
		out[i] = string(r[lo:hi])
	}
	return out
}

// Card renders one todo: title, text spread over columns, and a completion
// checkbox. selected adds a cursor marker to the title.
func (t Theme) Card(todo model.Todo, selected bool) string {
	box := t.BoxUnchecked
	if todo.Completed {
		box = t.BoxChecked
	}
	title := oneLine(todo.Title)
	if title == "" {
		title = "(untitled)"
	}
	if selected {
		title = "> " + title
	}

	// Wide runes can overflow a column; clip to one row so every card
	// keeps CardHeight.
	seg := Segments(todo.Text)
	col := lipgloss.NewStyle().Width(SegmentWidth + 1).MaxHeight(1)
	last := lipgloss.NewStyle().MaxHeight(1)
	cols := make([]string, 0, cardColumns)
	for i, s := range seg {
		if i == len(seg)-1 {
			cols = append(cols, last.Render(oneLine(s)))
			continue
		}
		cols = append(cols, col.Render(oneLine(s)))
	}

	body := strings.Join([]string{
		t.Title.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		fmt.Sprintf("%s Completed", box),
	}, "\n")

	style := t.CardBox
	if todo.Completed {
		style = t.CompletedCard
	}
	if selected {
		style = style.BorderForeground(lipgloss.Color("12"))
	}
	return style.Render(body)
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// Line renders a todo as a single numbered row for plain listings.
func (t Theme) Line(index int, todo model.Todo) string {
	box, color := t.BoxUnchecked, t.Muted
	if todo.Completed {
		box, color = t.BoxChecked, t.Success
	}
	title := todo.Title
	if len([]rune(title)) > 60 {
		title = string([]rune(title)[:57]) + "..."
	}
	line := fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", index)), color.Render(box), title)
	if todo.Text != "" {
		text := todo.Text
		if len([]rune(text)) > SegmentWidth {
			text = string([]rune(text)[:SegmentWidth]) + "…"
		}
		line += " " + t.Muted.Render("— "+text)
	}
	return line + " " + t.Muted.Render("["+shortID(todo.ID)+"]")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

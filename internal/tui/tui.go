// Package tui is the interactive surface: a creation form, a list of todo
// cards and a short-lived toast after each add.
//
// The model never edits todos itself. Every action goes through the App's
// store; the store notifies the persistence bridge, then the model pulls a
// fresh snapshot and re-renders.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tadacards/internal/app"
	"github.com/Makepad-fr/tadacards/internal/model"
	"github.com/Makepad-fr/tadacards/internal/ui"
)

// ToastTTL is how long the "added" notification stays on screen.
const ToastTTL = 2 * time.Second

const toastAdded = "Todo added successfully"

type focus int

const (
	focusTitle focus = iota
	focusText
	focusList
	focusCount
)

// cardItem adapts a todo to bubbles/list.Item.
type cardItem struct{ todo model.Todo }

func (i cardItem) FilterValue() string { return i.todo.Title }

// cardDelegate draws each item as a card.
type cardDelegate struct{ theme ui.Theme }

func (d cardDelegate) Height() int                         { return ui.CardHeight }
func (d cardDelegate) Spacing() int                        { return 0 }
func (d cardDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.theme.Card(it.todo, index == m.Index()))
}

type toastExpiredMsg struct{ id int }

// Model is the Bubble Tea model for the todo screen.
type Model struct {
	app   *app.App
	theme ui.Theme
	keys  keyMap
	help  help.Model

	list   list.Model
	inputs [2]textinput.Model
	focus  focus

	toast   string
	toastID int
	err     string

	width, height int
}

// New builds the model over a and loads the current list.
func New(a *app.App, theme ui.Theme) Model {
	l := list.New(nil, cardDelegate{theme: theme}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("card", "cards")
	l.Styles.PaginationStyle = theme.Help
	l.KeyMap.Quit.SetEnabled(false)

	m := Model{
		app:   a,
		theme: theme,
		keys:  newKeyMap(),
		help:  help.New(),
		list:  l,
	}

	for i, label := range []string{"Title", "Text"} {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-6s> ", label)
		ti.Placeholder = "Type here"
		ti.CharLimit = 500
		m.inputs[i] = ti
	}
	m.inputs[focusTitle].Focus()
	m.sync()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(a *app.App, theme ui.Theme, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(New(a, theme), opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Next) {
			cmd := m.setFocus((m.focus + 1) % focusCount)
			return m, cmd
		}
		if key.Matches(msg, m.keys.Prev) {
			cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, cmd
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}

	if m.focus == focusList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Leave):
		cmd := m.setFocus(focusList)
		return m, cmd
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.New):
		cmd := m.setFocus(focusTitle)
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selectedID(); ok {
			m.app.Store.Toggle(id)
			m.sync()
		}
		return m, nil
	case key.Matches(msg, m.keys.Remove):
		if id, ok := m.selectedID(); ok {
			m.app.Store.Remove(id)
			m.sync()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// submit adds a todo from the form, clears it and shows the toast.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.app.AddTodo(m.inputs[focusTitle].Value(), m.inputs[focusText].Value())
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.sync()
	focusCmd := m.setFocus(focusTitle)
	if m.err != "" {
		return m, focusCmd
	}
	m.list.Select(len(m.list.Items()) - 1)

	m.toastID++
	m.toast = toastAdded
	id := m.toastID
	expire := tea.Tick(ToastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
	return m, tea.Batch(focusCmd, expire)
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if focus(i) == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) selectedID() (string, bool) {
	it, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return "", false
	}
	return it.todo.ID, true
}

// sync reloads the list from the store and picks up any save error.
func (m *Model) sync() {
	todos := m.app.Store.Todos()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, cardItem{todo: t})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if n := len(items); n > 0 && idx >= n {
		m.list.Select(n - 1)
	}

	m.err = ""
	if err := m.app.Bridge.Err(); err != nil {
		m.err = err.Error()
	}
}

const formHeight = 9

func (m *Model) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	h := m.height - formHeight
	if h < 5 {
		h = 5
	}
	m.list.SetSize(w, h)
	for i := range m.inputs {
		m.inputs[i].Width = w - 12
	}
	m.help.Width = w
}

func (m Model) View() string {
	done, pending := m.app.Store.Stats()
	var b strings.Builder
	b.WriteString(m.theme.Header(done, pending))
	b.WriteString("  ")
	b.WriteString(m.theme.Muted.Render(m.theme.ProgressBar(done, done+pending, 20)))
	b.WriteString("\n")

	form := lipgloss.JoinVertical(lipgloss.Left,
		m.inputs[focusTitle].View(),
		m.inputs[focusText].View(),
		m.theme.Muted.Render("enter: add"),
	)
	b.WriteString(m.theme.Frame.Render(form))
	b.WriteString("\n")

	switch {
	case m.err != "":
		b.WriteString(m.theme.Error.Render(m.theme.SymFail + " " + m.err))
	case m.toast != "":
		b.WriteString(m.theme.Toast.Render(m.theme.SymOK + " " + m.toast))
	}
	b.WriteString("\n")

	if m.app.Store.Len() == 0 {
		b.WriteString(m.theme.Muted.Render("no todos yet"))
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.forFocus(m.focus)))
	return b.String()
}

// Package tui is the interactive shell: it renders store state and turns
// key presses into store operations. It owns no list logic of its own.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/ui"
	"github.com/idilsaglam/grocery/internal/view"
)

type focus int

const (
	focusList focus = iota
	focusAdd
	focusSearch
)

// Messages
type loadedMsg struct{ op model.Op }
type opDoneMsg struct{ op model.Op }
type changedMsg struct{}

type Model struct {
	ctx   context.Context
	store *store.Store
	keys  keyMap

	list    list.Model
	spinner spinner.Model
	add     textinput.Model
	search  textinput.Model
	focus   focus
	addErr  string // last add validation error (shown until the next keypress)

	state  model.State
	width  int
	height int
}

// New builds the shell around s. ctx is used for every request the shell
// starts.
func New(ctx context.Context, s *store.Store) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.AdditionalShortHelpKeys = keys.extra
	l.AdditionalFullHelpKeys = keys.extra
	// q is ours; the list must not quit on its own
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Accent

	add := textinput.New()
	add.Prompt = "+ "
	add.Placeholder = "Add item"
	add.CharLimit = 200

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search items"
	search.CharLimit = 100

	m := Model{
		ctx:     ctx,
		store:   s,
		keys:    keys,
		list:    l,
		spinner: sp,
		add:     add,
		search:  search,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, s *store.Store) error {
	p := tea.NewProgram(New(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.waitForChange())
}

func (m Model) load() tea.Cmd {
	s, ctx := m.store, m.ctx
	return func() tea.Msg { return loadedMsg{op: s.Initialize(ctx)} }
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.store.Changed()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m Model) run(f func(context.Context, *store.Store) model.Op) tea.Cmd {
	s, ctx := m.store, m.ctx
	return func() tea.Msg { return opDoneMsg{op: f(ctx, s)} }
}

func (m Model) addCmd(label string) tea.Cmd {
	return m.run(func(ctx context.Context, s *store.Store) model.Op {
		op, _ := s.Add(ctx, label)
		return op
	})
}

func (m Model) toggleCmd(id int) tea.Cmd {
	return m.run(func(ctx context.Context, s *store.Store) model.Op {
		op, _ := s.Toggle(ctx, id)
		return op
	})
}

func (m Model) removeCmd(id int) tea.Cmd {
	return m.run(func(ctx context.Context, s *store.Store) model.Op {
		op, _ := s.Remove(ctx, id)
		return op
	})
}

func (m Model) reloadCmd() tea.Cmd {
	return m.run(func(ctx context.Context, s *store.Store) model.Op {
		return s.Reload(ctx)
	})
}

// refresh pulls a fresh snapshot and rebuilds the visible rows.
func (m *Model) refresh() {
	m.state = m.store.State()
	visible := view.Filter(m.state.Items, m.search.Value())
	rows := make([]list.Item, 0, len(visible))
	for _, it := range visible {
		rows = append(rows, listItem{item: it, status: m.store.ItemStatus(it.ID)})
	}
	m.list.SetItems(rows)
}

func (m Model) selectedID() (int, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.item.ID, true
}

func (m *Model) resize() {
	// header, two inputs, footer, borders, error line
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
	m.add.Width = w - 4
	m.search.Width = w - 4
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case changedMsg:
		m.refresh()
		return m, m.waitForChange()

	case loadedMsg, opDoneMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusAdd:
			return m.updateAdd(msg)
		case focusSearch:
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.addErr = ""
	switch {
	case key.Matches(msg, m.keys.Submit):
		label := strings.TrimSpace(m.add.Value())
		if label == "" {
			m.addErr = "Item cannot be empty"
			return m, nil
		}
		m.add.SetValue("")
		m.add.Blur()
		m.focus = focusList
		return m, m.addCmd(label)
	case key.Matches(msg, m.keys.Cancel):
		m.add.SetValue("")
		m.add.Blur()
		m.focus = focusList
		return m, nil
	}
	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.search.Blur()
		m.focus = focusList
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.search.SetValue("")
		m.search.Blur()
		m.focus = focusList
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		m.focus = focusAdd
		return m, m.add.Focus()
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Dismiss):
		// a failed first load keeps its error until a reload succeeds
		if !m.listVisible() {
			return m, nil
		}
		m.store.ClearError()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.state.Loading {
			return m, nil
		}
		return m, m.reloadCmd()
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.selectedID(); ok && m.listVisible() {
			return m, m.toggleCmd(id)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok && m.listVisible() {
			return m, m.removeCmd(id)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// listVisible holds once any fetch has succeeded. Message order plays no
// part: the store's own state decides.
func (m Model) listVisible() bool { return !m.state.Loading && m.state.Loaded }

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	checked, pending := view.Stats(m.state.Items)
	b.WriteString(t.Title.Render("Groceries"))
	b.WriteString("   ")
	b.WriteString(t.Success.Render(t.SymOK) + " " + strconv.Itoa(checked) + "  ")
	b.WriteString(t.Pending.Render("•") + " " + strconv.Itoa(pending))
	b.WriteString("\n\n")

	b.WriteString(m.add.View())
	if m.addErr != "" {
		b.WriteString("  " + t.Error.Render(m.addErr))
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " Loading items...")
	case !m.state.Loaded:
		b.WriteString(t.Error.Render("Error: " + m.state.Err))
		b.WriteString("\n" + t.Muted.Render("press r to retry"))
	default:
		if len(m.list.Items()) == 0 {
			b.WriteString(t.Muted.Render("Your list is empty."))
		} else {
			b.WriteString(m.list.View())
		}
		if m.state.Err != "" {
			b.WriteString("\n" + t.Error.Render("Error: "+m.state.Err) + " " + t.Muted.Render("(x to dismiss)"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(t.Muted.Render(view.CountLabel(len(m.state.Items))))
	return panelString(b.String())
}

// helpers for View
func panelString(inner string) string {
	t := ui.Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

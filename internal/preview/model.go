// Package preview is a terminal preview of the site's rotation sets. It runs
// the same rotation controller the live views use, so intervals, manual
// override and the progress ticker can be checked without a browser.
package preview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/rotation"
)

// Set is one rotation set as the preview shows it
type Set struct {
	Name     string
	Items    []string
	Interval time.Duration

	// ProgressStep and ProgressEvery enable the progress bar when both are set
	ProgressStep  int
	ProgressEvery time.Duration
}

// Sets returns the rotating sections of c with the intervals the site uses
func Sets(c *content.Content) []Set {
	quotes := make([]string, len(c.Testimonials))
	for i, t := range c.Testimonials {
		quotes[i] = fmt.Sprintf("%s (%s, %s)\n\n%s", t.Author, t.Role, t.Company, t.Quote)
	}
	logos := make([]string, len(c.Logos))
	for i, l := range c.Logos {
		logos[i] = l.Name
	}

	return []Set{
		{Name: "hero", Items: c.Hero.Steps, Interval: 2500 * time.Millisecond, ProgressStep: 2, ProgressEvery: 100 * time.Millisecond},
		{Name: "testimonials", Items: quotes, Interval: 5 * time.Second},
		{Name: "logos", Items: logos, Interval: 3 * time.Second},
	}
}

// Find returns the set called name
func Find(sets []Set, name string) (Set, bool) {
	for _, s := range sets {
		if s.Name == name {
			return s, true
		}
	}
	return Set{}, false
}

// KeyMap defines the preview's keyboard shortcuts
type KeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Toggle key.Binding
	Jump   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var DefaultKeyMap = KeyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "play/pause"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "jump"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Toggle, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump},
		{k.Toggle, k.Help, k.Quit},
	}
}

// changeMsg reports a controller change to the program. The model reads the
// state from the controller, so a dropped message only delays a redraw.
type changeMsg struct {
	cause rotation.Cause
}

// Model is the bubbletea model of the preview
type Model struct {
	set     Set
	ctrl    *rotation.Controller[string]
	changes chan changeMsg

	keys KeyMap
	help help.Model
	bar  progress.Model

	state    rotation.State
	last     rotation.Cause
	changed  int
	notice   string
	width    int
	quitting bool
}

// NewModel creates a preview of set. The controller starts with Init.
func NewModel(set Set, clock clockwork.Clock) (Model, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	changes := make(chan changeMsg, 32)

	opts := []rotation.Option{
		rotation.WithClock(clock),
		rotation.WithOnChange(func(_ rotation.State, cause rotation.Cause) {
			select {
			case changes <- changeMsg{cause: cause}:
			default:
			}
		}),
	}
	if set.ProgressStep > 0 && set.ProgressEvery > 0 {
		opts = append(opts, rotation.WithProgress(set.ProgressStep, set.ProgressEvery))
	}

	ctrl, err := rotation.New(set.Items, set.Interval, opts...)
	if err != nil {
		return Model{}, fmt.Errorf("preview %s: %w", set.Name, err)
	}

	return Model{
		set:     set,
		ctrl:    ctrl,
		changes: changes,
		keys:    DefaultKeyMap,
		help:    help.New(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		state:   ctrl.State(),
		width:   80,
	}, nil
}

// waitForChange blocks until the controller reports a change
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		return <-m.changes
	}
}

// Init starts the controller and listens for its changes
func (m Model) Init() tea.Cmd {
	m.ctrl.Start()
	return m.waitForChange()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case changeMsg:
		m.state = m.ctrl.State()
		m.last = msg.cause
		if msg.cause != rotation.CauseProgress {
			m.changed++
		}
		return m, m.waitForChange()

	case tea.KeyMsg:
		m.notice = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.ctrl.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Prev):
			m.ctrl.Retreat()
		case key.Matches(msg, m.keys.Next):
			m.ctrl.Advance()
		case key.Matches(msg, m.keys.Toggle):
			m.ctrl.Toggle()
		case key.Matches(msg, m.keys.Jump):
			i, _ := strconv.Atoi(msg.String())
			if err := m.ctrl.JumpTo(i - 1); err != nil {
				m.notice = fmt.Sprintf("no item %d (set has %d)", i, m.ctrl.Len())
			}
		}
		m.state = m.ctrl.State()
		return m, nil
	}

	return m, nil
}

// Close stops the controller
func (m Model) Close() { m.ctrl.Close() }

// State returns the controller state the model last observed
func (m Model) State() rotation.State { return m.state }

// View renders the preview
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.state
	items := m.ctrl.Items()

	var b strings.Builder

	status := "▶ playing"
	if !st.AutoPlaying {
		status = "❚❚ paused"
	}
	b.WriteString(titleStyle.Render("Clueso preview · " + m.set.Name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · every %s · item %d of %d", status, m.set.Interval, st.Index+1, len(items))))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Width(min(m.width-4, 72)).Render(items[st.Index]))
	b.WriteString("\n\n")

	b.WriteString(renderDots(len(items), st.Index))
	b.WriteString("\n")

	if m.set.ProgressStep > 0 {
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(float64(st.Progress) / 100))
		b.WriteString("\n")
	}

	if m.changed > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("last change: %s", m.last)))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(warningStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderDots(n, current int) string {
	dots := make([]string, n)
	for i := range dots {
		if i == current {
			dots[i] = selectedStyle.Render("●")
		} else {
			dots[i] = mutedStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

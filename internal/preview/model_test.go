package preview

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/rotation"
)

const waitFor = time.Second

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, name string, clock clockwork.Clock) Model {
	t.Helper()
	set, ok := Find(Sets(content.Default()), name)
	require.True(t, ok, name)

	m, err := NewModel(set, clock)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// receive runs cmd until it yields a message or the test times out
func receive(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	select {
	case msg := <-got:
		return msg
	case <-time.After(waitFor):
		t.Fatal("no message from command")
		return nil
	}
}

func TestSets(t *testing.T) {
	sets := Sets(content.Default())
	require.Len(t, sets, 3)

	hero, ok := Find(sets, "hero")
	require.True(t, ok)
	assert.Len(t, hero.Items, 5)
	assert.Equal(t, 2500*time.Millisecond, hero.Interval)

	testimonials, _ := Find(sets, "testimonials")
	assert.Len(t, testimonials.Items, 4)
	assert.Contains(t, testimonials.Items[0], "Daniel Wood")

	_, ok = Find(sets, "pricing")
	assert.False(t, ok)
}

func TestNewModel_EmptySet(t *testing.T) {
	_, err := NewModel(Set{Name: "empty", Interval: time.Second}, nil)
	assert.ErrorIs(t, err, rotation.ErrEmptySet)
}

func TestModel_TickRedraws(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newModel(t, "logos", clock)

	cmd := m.Init()
	clock.Advance(3 * time.Second)

	msg := receive(t, cmd)
	require.IsType(t, changeMsg{}, msg)
	assert.Equal(t, rotation.CauseTick, msg.(changeMsg).cause)

	m = update(t, m, msg)
	assert.Equal(t, 1, m.State().Index)
	assert.Contains(t, m.View(), "Duda")
	assert.Contains(t, m.View(), "last change: tick")
}

func TestModel_Keys(t *testing.T) {
	m := newModel(t, "testimonials", clockwork.NewFakeClock())
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, rotation.State{Index: 1, AutoPlaying: false}, m.State())

	m = update(t, m, runes("h"))
	assert.Equal(t, 0, m.State().Index)

	m = update(t, m, runes("4"))
	assert.Equal(t, 3, m.State().Index)
	assert.Contains(t, m.View(), "Sarah Chen")

	m = update(t, m, runes("9"))
	assert.Equal(t, 3, m.State().Index)
	assert.Contains(t, m.View(), "no item 9 (set has 4)")

	m = update(t, m, runes("p"))
	assert.True(t, m.State().AutoPlaying)
	assert.Contains(t, m.View(), "playing")

	m = update(t, m, runes("?"))
	assert.Contains(t, m.View(), "jump")

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestModel_ProgressBar(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newModel(t, "hero", clock)

	cmd := m.Init()
	clock.Advance(100 * time.Millisecond)

	msg := receive(t, cmd)
	assert.Equal(t, rotation.CauseProgress, msg.(changeMsg).cause)

	m = update(t, m, msg)
	assert.Equal(t, 2, m.State().Progress)
	assert.NotContains(t, m.View(), "last change", "progress is not an index change")
	assert.Contains(t, m.View(), "2%")
}

func TestModel_WindowSize(t *testing.T) {
	m := newModel(t, "logos", clockwork.NewFakeClock())

	m = update(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	assert.Equal(t, 30, m.bar.Width)

	m = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	assert.Equal(t, 60, m.bar.Width)
}

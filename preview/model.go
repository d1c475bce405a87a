// Package preview shows a text view with its line number gutter in the
// terminal and lets the user scroll and flip the gutter's settings live.
package preview

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/linenum/gutter"
	termrenderer "github.com/ByLCY/linenum/renderer/term"
	"github.com/ByLCY/linenum/textview"
)

// Options configures a preview Model.
type Options struct {
	Title string
	// ScrollStep is the number of rows moved per up/down key; 0 means 1.
	ScrollStep int
	Keys       *KeyMap
}

// Model is a bubbletea model over a terminal-backed TextView. The view must
// have been created with the same renderer as its backend.
type Model struct {
	view     *textview.TextView
	renderer *termrenderer.Renderer
	keys     KeyMap
	help     help.Model
	title    string
	step     int
	status   lipgloss.Style
}

// New wraps view; r draws it.
func New(view *textview.TextView, r *termrenderer.Renderer, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	step := opts.ScrollStep
	if step <= 0 {
		step = 1
	}
	return Model{
		view:     view,
		renderer: r,
		keys:     keys,
		help:     help.New(),
		title:    opts.Title,
		step:     step,
		status:   lipgloss.NewStyle().Reverse(true),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// 最后一行留给状态栏
		m.view.SetSize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.view.Gutter()
	_, h := m.view.Size()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.view.ScrollBy(0, m.step)
	case key.Matches(msg, m.keys.Up):
		m.view.ScrollBy(0, -m.step)
	case key.Matches(msg, m.keys.PageDown):
		m.view.ScrollBy(0, max(h-1, 1))
	case key.Matches(msg, m.keys.PageUp):
		m.view.ScrollBy(0, -max(h-1, 1))
	case key.Matches(msg, m.keys.Top):
		x, _ := m.view.Scroll()
		m.view.ScrollTo(x, 0)
	case key.Matches(msg, m.keys.Bottom):
		x, _ := m.view.Scroll()
		m.view.ScrollTo(x, math.MaxInt32)
	case key.Matches(msg, m.keys.Side):
		g.SetSide(g.Side().Opposite())
	case key.Matches(msg, m.keys.Hug):
		g.SetHug(!g.Hug())
	case key.Matches(msg, m.keys.Align):
		m.view.SetAlign(m.view.Align().Next())
	}
	return m, nil
}

func (m Model) View() string {
	out, err := m.renderer.Render(m.view)
	if err != nil {
		return fmt.Sprintf("渲染失败: %v\n", err)
	}
	return string(out) + "\n" + m.statusLine()
}

// Status describes the visible lines and the gutter settings.
func (m Model) Status() string {
	g := m.view.Gutter()
	lines := "empty"
	if first, last, ok := gutter.VisibleRange(m.view.Snapshot()); ok {
		lines = fmt.Sprintf("%d-%d/%d", first+1, last+1, m.view.LineCount())
	}
	s := fmt.Sprintf("%s  side:%s hug:%t align:%s", lines, g.Side(), g.Hug(), m.view.Align())
	if m.title != "" {
		s = m.title + "  " + s
	}
	return s
}

func (m Model) statusLine() string {
	return m.status.Render(" "+m.Status()+" ") + " " + m.help.View(m.keys)
}

// Run starts the preview on the terminal's alternate screen.
func Run(view *textview.TextView, r *termrenderer.Renderer, opts Options) error {
	_, err := tea.NewProgram(New(view, r, opts), tea.WithAltScreen()).Run()
	return err
}

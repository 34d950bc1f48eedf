// Package tui renders the scene store in the terminal and forwards key
// presses to the store's operations.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/scenestage/internal/logging"
	"github.com/san-kum/scenestage/internal/reactive"
	"github.com/san-kum/scenestage/internal/scene"
	"github.com/san-kum/scenestage/internal/viewport"
)

type Options struct {
	Store  *scene.Store
	Window *viewport.Window
	// AddURL is the url the add key always adds.
	AddURL string
	Theme  Theme
	Logger *slog.Logger
}

// Model is the bubbletea model. The store section of the view is cached and
// rebuilt only after the reaction that tracked its last build is
// invalidated.
type Model struct {
	store   *scene.Store
	window  *viewport.Window
	rt      *reactive.Runtime
	render  *reactive.Reaction
	unwatch reactive.Disposer
	logger  *slog.Logger

	addURL string
	keys   keyMap
	help   help.Model
	styles styles

	cursor  int
	err     error
	frame   string
	dirty   bool
	renders int
}

func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := &Model{
		store:  opts.Store,
		window: opts.Window,
		rt:     opts.Store.Runtime(),
		logger: logger,
		addURL: opts.AddURL,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: newStyles(opts.Theme),
		dirty:  true,
	}
	if m.addURL == "" {
		m.addURL = scene.DefaultSeedURL
	}
	m.render = m.rt.NewReaction("render", func() { m.dirty = true })
	m.unwatch = m.store.WatchDimensions(m.window)
	return m
}

// Renders reports how many times the store section was rebuilt.
func (m *Model) Renders() int { return m.renders }

func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if err := m.window.Resize(msg.Width, msg.Height); err != nil {
			m.fail("resize", err)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.dirty = true
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.sceneCount()-1 {
			m.cursor++
			m.dirty = true
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Add):
		m.apply("add", m.store.AddScene(m.addURL))
	case key.Matches(msg, m.keys.Load):
		if url, ok := m.selected(); ok {
			m.apply("load", m.store.LoadScene(url))
		}
	case key.Matches(msg, m.keys.Show):
		if url, ok := m.selected(); ok {
			m.apply("show", m.store.ShowScene(url))
		}
	}
	return m, nil
}

func (m *Model) apply(op string, err error) {
	if err != nil {
		m.fail(op, err)
		return
	}
	m.err = nil
}

func (m *Model) fail(op string, err error) {
	m.err = err
	m.logger.Error("operation failed", "op", op, "err", err)
}

func (m *Model) close() {
	m.render.Dispose()
	m.unwatch()
}

func (m *Model) sceneCount() int {
	var n int
	m.rt.Untracked(func() { n = len(m.store.Scenes()) })
	return n
}

func (m *Model) selected() (string, bool) {
	var url string
	var ok bool
	m.rt.Untracked(func() {
		scenes := m.store.Scenes()
		if m.cursor >= 0 && m.cursor < len(scenes) {
			url, ok = scenes[m.cursor].URL, true
		}
	})
	return url, ok
}

func (m *Model) View() string {
	if m.dirty {
		m.render.Track(func() { m.frame = m.renderStore() })
		m.dirty = false
		m.renders++
	}

	var b strings.Builder
	b.WriteString(m.styles.panel.Render(m.frame))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.err.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	stats := m.rt.Stats()
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("renders %d · actions %d · reactions %d", m.renders, stats.Actions, stats.Reactions)))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderStore() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.title.Render("Scene Stage"))
	b.WriteString("\n")

	width, okW := m.store.Width()
	height, okH := m.store.Height()
	b.WriteString(m.row("Width", dimension(width, okW)))
	b.WriteString(m.row("Height", dimension(height, okH)))
	b.WriteString(m.row("API", m.store.API().String()))
	b.WriteString("\n")

	b.WriteString(s.title.Render("Scenes"))
	b.WriteString("\n")
	for i, sc := range m.store.Scenes() {
		b.WriteString(m.sceneRow(i, sc))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	current, ok := m.store.CurrentScene()
	if !ok {
		current = "None"
	}
	b.WriteString(s.selected.Render("Current Scene: " + current))
	return b.String()
}

func (m *Model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.label.Render(label), m.styles.value.Render(value)) + "\n"
}

func (m *Model) sceneRow(i int, sc scene.Scene) string {
	s := m.styles
	marker := "  "
	name := fmt.Sprintf("Scene %d", i)
	if i == m.cursor {
		marker = s.selected.Render("> ")
		name = s.selected.Render(name)
	}

	load := s.link.Render("Load")
	if sc.Loaded {
		load = s.done.Render("Loaded")
	}

	var show string
	switch {
	case sc.Shown:
		show = s.done.Render("Shown")
	case sc.Loaded:
		show = s.link.Render("Show")
	}

	return fmt.Sprintf("%s%s  %s  %s | %s", marker, name, s.value.Render(sc.URL), load, show)
}

func dimension(v int, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

// Run starts the interactive program on the alternate screen.
func Run(opts Options) error {
	m := New(opts)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

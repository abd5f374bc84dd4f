// Package app contains the root application model.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/giv/internal/browser"
	"github.com/zjrosen/giv/internal/config"
	"github.com/zjrosen/giv/internal/keys"
	"github.com/zjrosen/giv/internal/log"
	"github.com/zjrosen/giv/internal/ui/commitlog"
	"github.com/zjrosen/giv/internal/ui/diffpane"
	"github.com/zjrosen/giv/internal/watcher"
)

// wheelStep is how many diff rows one mouse wheel notch scrolls.
const wheelStep = 3

// RepoChangedMsg reports that the repository changed on disk.
type RepoChangedMsg struct{}

// Model is the root application state.
type Model struct {
	ctx     context.Context
	browser *browser.Browser

	keys keys.KeyMap
	help help.Model

	// Global state
	width  int
	height int

	// Outer pane heights derived from the window size
	logHeight  int
	diffHeight int

	// File watcher for auto-refresh
	watcherHandle *watcher.Watcher
	changes       <-chan struct{}
}

// New creates the root model over b. When cfg.Watch is set and gitDir is
// not empty, changes under gitDir trigger a refresh.
func New(ctx context.Context, b *browser.Browser, cfg config.Config, gitDir string) Model {
	m := Model{
		ctx:     ctx,
		browser: b,
		keys:    keys.DefaultKeyMap(),
		help:    help.New(),
	}

	if cfg.Watch && gitDir != "" {
		wcfg := watcher.DefaultConfig(gitDir)
		wcfg.Debounce = cfg.WatchDebounce
		w, err := watcher.New(wcfg)
		if err != nil {
			log.ErrorErr(log.CatWatcher, "Failed to create watcher", err)
			return m
		}
		changes, err := w.Start()
		if err != nil {
			// The browser still works, only without auto-refresh.
			log.ErrorErr(log.CatWatcher, "Failed to start watcher", err)
			_ = w.Stop()
			return m
		}
		m.watcherHandle = w
		m.changes = changes
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange blocks until the watcher signals. A nil channel yields no
// command.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return RepoChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		case key.Matches(msg, m.keys.Down):
			m.browser.MoveSelection(1)
		case key.Matches(msg, m.keys.Up):
			m.browser.MoveSelection(-1)
		case key.Matches(msg, m.keys.PageDown):
			m.browser.PageDown()
		case key.Matches(msg, m.keys.PageUp):
			m.browser.PageUp()
		case key.Matches(msg, m.keys.ScrollDown):
			m.browser.ScrollDiff(1)
		case key.Matches(msg, m.keys.ScrollUp):
			m.browser.ScrollDiff(-1)
		case key.Matches(msg, m.keys.HalfPageDown):
			m.browser.HalfPageDown()
		case key.Matches(msg, m.keys.HalfPageUp):
			m.browser.HalfPageUp()
		case key.Matches(msg, m.keys.NextFile):
			m.browser.NextFile()
		case key.Matches(msg, m.keys.PrevFile):
			m.browser.PrevFile()
		case key.Matches(msg, m.keys.Refresh):
			log.Info(log.CatUI, "Manual refresh")
			m.browser.Refresh(m.ctx)
		default:
			return m, nil
		}

	case tea.MouseMsg:
		if !m.handleMouse(msg) {
			return m, nil
		}

	case RepoChangedMsg:
		log.Info(log.CatWatcher, "Repository changed, refreshing")
		m.browser.Refresh(m.ctx)
		cmd = waitForChange(m.changes)

	default:
		return m, nil
	}

	m.browser.Sync(m.ctx)
	return m, cmd
}

// handleMouse applies a click or wheel event and reports whether the state
// may have changed.
func (m Model) handleMouse(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress {
		return false
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		st := m.browser.State()
		idx, ok := commitlog.HitTest(msg, st.CommitsOffset, st.LogRows, len(m.browser.Window()))
		if !ok {
			return false
		}
		m.browser.Select(idx)
		return true

	case tea.MouseButtonWheelDown, tea.MouseButtonWheelUp:
		if !m.inDiffArea(msg.Y) {
			return false
		}
		if msg.Button == tea.MouseButtonWheelDown {
			m.browser.ScrollDiff(wheelStep)
		} else {
			m.browser.ScrollDiff(-wheelStep)
		}
		return true
	}
	return false
}

func (m Model) inDiffArea(y int) bool {
	return y >= m.logHeight && y < m.logHeight+m.diffHeight
}

// layout splits the window: the help line at the bottom, a third of the
// rest for the history pane and the remainder for the diff.
func (m *Model) layout() {
	m.help.Width = m.width
	helpHeight := lipgloss.Height(m.help.View(m.keys))

	avail := max(m.height-helpHeight, 0)
	m.logHeight = avail / 3
	m.diffHeight = avail - m.logHeight

	m.browser.Resize(commitlog.InnerHeight(m.logHeight), diffpane.InnerHeight(m.diffHeight))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	st := m.browser.State()
	logView := commitlog.Render(m.browser.Window(), commitlog.Config{
		Width:    m.width,
		Height:   m.logHeight,
		Offset:   st.CommitsOffset,
		Selected: st.Selection,
		Err:      m.browser.WindowErr(),
	})

	textWidth, filesWidth := diffpane.Widths(m.width)
	bs := m.browser.Blocks()
	diffView := lipgloss.JoinHorizontal(lipgloss.Top,
		diffpane.Render(bs, diffpane.Config{
			Width:  textWidth,
			Height: m.diffHeight,
			Offset: st.DiffOffset,
			Title:  diffpane.Title(m.browser.Detail()),
		}),
		diffpane.RenderFileList(bs, m.browser.Highlight(), filesWidth, m.diffHeight),
	)

	// Panes too short for their borders render empty and take no rows.
	parts := make([]string, 0, 3)
	for _, p := range []string{logView, diffView} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, m.help.View(m.keys))

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
		m.watcherHandle = nil
	}
	return nil
}

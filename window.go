package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// view is one screen of the portal. Exactly one view is active in the window
// at a time.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (view, tea.Cmd)
	View() string
	Title() string
}

// switchViewMsg asks the window to replace the active view with next.
type switchViewMsg struct {
	next view
}

func switchTo(next view) tea.Cmd {
	return func() tea.Msg {
		return switchViewMsg{next: next}
	}
}

// app is the state shared by every view.
type app struct {
	ctx context.Context
	h   handler
	st  styles
}

type window struct {
	active view
	width  int
	height int
	log    *zap.Logger
}

func newWindow(first view, log *zap.Logger) window {
	return window{active: first, log: log}
}

func (w window) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(w.active.Title()), w.active.Init())
}

func (w window) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return w, tea.Quit
		}
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case switchViewMsg:
		return w.handOff(msg.next)
	}

	var cmd tea.Cmd
	w.active, cmd = w.active.Update(msg)
	return w, cmd
}

// handOff drops the current view and installs next. The new view picks its
// own title and receives the last known terminal size.
func (w window) handOff(next view) (tea.Model, tea.Cmd) {
	w.log.Debug("switching view", zap.String("from", w.active.Title()), zap.String("to", next.Title()))
	w.active = next

	cmds := []tea.Cmd{tea.SetWindowTitle(next.Title()), next.Init()}
	if w.width > 0 {
		var cmd tea.Cmd
		w.active, cmd = w.active.Update(tea.WindowSizeMsg{Width: w.width, Height: w.height})
		cmds = append(cmds, cmd)
	}
	return w, tea.Batch(cmds...)
}

func (w window) View() string {
	return w.active.View()
}

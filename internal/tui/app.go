// Package tui is the terminal front end: a Bubbletea program whose root
// model walks the session through landing, profile collection, intake, live
// progress, results and claim history.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salus-health/salus/internal/watch"
)

// App wraps the Bubbletea program.
type App struct {
	program *tea.Program
	model   Model
	watcher *watch.Watcher
}

// New creates a new TUI application.
func New(deps Deps) *App {
	return &App{
		model:   NewModel(deps),
		watcher: deps.Watcher,
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Graceful shutdown on termination signals.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Drop-directory candidates arrive as messages.
	if a.watcher != nil {
		a.watcher.SetCandidateCallback(func(c watch.Candidate) {
			a.program.Send(candidateMsg{candidate: c})
		})
		a.watcher.Start()
		defer a.watcher.Stop()
	}

	_, err := a.program.Run()
	return err
}

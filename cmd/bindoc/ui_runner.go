package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bindoc/internal/driver"
	"bindoc/internal/project"
	"bindoc/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

func runWithUI(ctx context.Context, title string, m *project.Manifest, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.RunFiles(ctx, m.Root, files, optsCopy)
		if err == nil {
			res.Digest = driver.ModelDigest(m, res)
		}
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wals/internal/driver"
	"wals/internal/ui"
)

type diagnoseOutcome struct {
	result *driver.Result
	err    error
}

func runDiagnoseWithUI(ctx context.Context, title string, files, paths []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Diagnose(ctx, paths, o)
		outcomeCh <- diagnoseOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы не заблокировать воркеры
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

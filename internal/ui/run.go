package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/preview"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
)

// Run launches the interactive session and blocks until the user quits.
func Run(ctx context.Context, orch *task.Orchestrator, watcher *preview.Watcher, client *api.Client, outDir string) error {
	m := NewModel(ctx, orch, watcher, client, outDir)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := prog.Run()
	watcher.Close()
	return err
}

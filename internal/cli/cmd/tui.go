package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/preview"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/ui"
)

func newTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "tui",
		Short:         "Open the interactive session",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tuiExecute(cmd)
		},
	}
}

func tuiExecute(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return &ExitError{
			Code: ExitCLIError,
			Err:  errors.New("interactive mode needs a terminal; use 'vdc run <url>' instead"),
		}
	}

	dir := outDir(cmd)
	if err := ensureDir(dir); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}

	client, log := newClient(cmd)
	orch := task.New(client, task.WithLogger(log))
	watcher := preview.NewWatcher(client, preview.WithLogger(log))

	if err := ui.Run(cmd.Context(), orch, watcher, client, dir); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return nil
}

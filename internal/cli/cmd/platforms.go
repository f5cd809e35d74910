package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "platforms",
		Short:         "List the platforms the server accepts links from",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _ := newClient(cmd)
			platforms, err := client.SupportedPlatforms(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitBackendError, Err: err}
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Platform", "Color"})
			for _, p := range platforms {
				t.AppendRow(table.Row{p.Name, p.Color})
			}
			t.Render()
			return nil
		},
	}
}

package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "formats",
		Short:         "List the audio formats the server offers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _ := newClient(cmd)
			formats, err := client.AudioFormats(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitBackendError, Err: err}
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "Quality", "Extension", ""})
			for _, f := range formats {
				note := ""
				if f.Recommended {
					note = "recommended"
				}
				t.AppendRow(table.Row{f.ID, f.Name, f.Quality, f.Extension, note})
			}
			t.Render()
			return nil
		},
	}
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "preview <url>",
		Short:         "Show title, uploader and available qualities without converting",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(args[0])
			if !util.IsSupportedMediaURL(raw) {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("unsupported or invalid URL: %q", raw)}
			}

			client, _ := newClient(cmd)
			info, err := client.VideoInfo(cmd.Context(), util.NormalizeYouTubeURL(raw))
			if err != nil {
				return &ExitError{Code: ExitBackendError, Err: err}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:     %s\n", info.Title)
			if info.Uploader != "" {
				fmt.Fprintf(out, "Uploader:  %s\n", info.Uploader)
			}
			fmt.Fprintf(out, "Platform:  %s\n", info.Platform)
			if info.DurationFormatted != "" {
				fmt.Fprintf(out, "Duration:  %s\n", info.DurationFormatted)
			}
			if len(info.AvailableTiers) > 0 {
				tiers := make([]string, 0, len(info.AvailableTiers))
				for _, q := range info.AvailableTiers {
					tiers = append(tiers, string(q))
				}
				fmt.Fprintf(out, "Qualities: %s\n", strings.Join(tiers, ", "))
			}
			return nil
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Check connectivity to the conversion server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _ := newClient(cmd)
			h, err := client.Health(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitBackendError, Err: fmt.Errorf("server unreachable: %v", err)}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server:        %s\n", viper.GetString("api_base_url"))
			fmt.Fprintf(out, "Status:        %s\n", h.Status)
			fmt.Fprintf(out, "Active tasks:  %d\n", h.ActiveTasks)
			if h.MaxDurationHours > 0 {
				fmt.Fprintf(out, "Max duration:  %dh\n", h.MaxDurationHours)
			}
			return nil
		},
	}
}

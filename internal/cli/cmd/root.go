package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/config"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/dirs"
)

const (
	ExitOK           = 0
	ExitCLIError     = 1
	ExitBackendError = 2
	ExitTaskFailed   = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vdc [url]",
		Short:         "Download and convert videos through a conversion server",
		Long:          "vdc drives a media conversion server: give it a link from YouTube, Instagram, TikTok, Facebook or X and it submits the conversion, tracks its progress, and saves the finished audio or video file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation opens the interactive session; with a URL
			// it behaves like `vdc run`.
			if len(args) == 0 {
				return tuiExecute(cmd)
			}
			return runExecute(cmd, args)
		},
	}

	root.PersistentFlags().String("api-url", api.DefaultBaseURL, "Conversion server base URL")
	root.PersistentFlags().StringP("out-dir", "o", defaultOutDir(), "Directory to save finished files")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log requests and lifecycle transitions")

	bindRunFlags(root.Flags())

	root.AddCommand(newRunCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newFormatsCmd())
	root.AddCommand(newPlatformsCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	if err := config.Init(root); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return root.ExecuteContext(ctx)
}

// newClient builds the API client from flag/env/config settings, with a
// logger that is silent unless --verbose is set.
func newClient(cmd *cobra.Command) (*api.Client, *slog.Logger) {
	log := newLogger(cmd)
	baseURL := viper.GetString("api_base_url")
	if baseURL == "" {
		baseURL = getPersistentString(cmd, "api-url", api.DefaultBaseURL)
	}
	return api.New(baseURL, api.WithLogger(log)), log
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose := viper.GetBool("verbose") || getPersistentBool(cmd, "verbose", false)
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// defaultOutDir is where finished files land when --out-dir is not
// given: the app's data directory, falling back to the working dir.
func defaultOutDir() string {
	if d, err := dirs.DefaultOutputDir(); err == nil {
		return d
	}
	return "."
}

func outDir(cmd *cobra.Command) string {
	dir := viper.GetString("out_dir")
	if dir == "" {
		dir = getPersistentString(cmd, "out-dir", defaultOutDir())
	}
	return filepath.Clean(dir)
}

func getPersistentString(cmd *cobra.Command, name, def string) string {
	v, err := cmd.InheritedFlags().GetString(name)
	if err != nil || v == "" {
		if v2, err2 := cmd.Flags().GetString(name); err2 == nil && v2 != "" {
			return v2
		}
		return def
	}
	return v
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	if v, err := cmd.InheritedFlags().GetBool(name); err == nil {
		return v
	}
	if v, err := cmd.Flags().GetBool(name); err == nil {
		return v
	}
	return def
}

func ensureDir(path string) error {
	if path == "" {
		path = "."
	}
	return os.MkdirAll(filepath.Clean(path), 0o755)
}

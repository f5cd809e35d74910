package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util/format"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run <url>",
		Short:         "Convert one URL and save the result (plain output)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args)
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "audio", "Output kind: audio, video")
	fs.StringP("audio-format", "a", "mp3", "Audio codec: mp3, aac, opus, ogg")
	fs.StringP("quality", "Q", "best", "Video quality: best, 1080p, 720p, 480p, 360p, 144p")
	fs.Bool("no-save", false, "Track the conversion but skip saving the file")
}

func assembleParams(cmd *cobra.Command, rawURL string) (task.Params, error) {
	kind, _ := cmd.Flags().GetString("format")
	codec, _ := cmd.Flags().GetString("audio-format")
	quality, _ := cmd.Flags().GetString("quality")

	kind = strings.ToLower(kind)
	if kind != string(model.OutputAudio) && kind != string(model.OutputVideo) {
		return task.Params{}, fmt.Errorf("invalid --format: %q (valid: audio|video)", kind)
	}
	c := model.AudioCodec(strings.ToLower(codec))
	if !c.Valid() {
		return task.Params{}, fmt.Errorf("invalid --audio-format: %q (valid: mp3|aac|opus|ogg)", codec)
	}
	q := model.VideoQuality(strings.ToLower(quality))
	if !q.Valid() {
		return task.Params{}, fmt.Errorf("invalid --quality: %q (valid: best|1080p|720p|480p|360p|144p)", quality)
	}
	if !util.IsSupportedMediaURL(strings.TrimSpace(rawURL)) {
		return task.Params{}, fmt.Errorf("unsupported or invalid URL: %q", rawURL)
	}
	return task.Params{URL: rawURL, Kind: model.OutputKind(kind), Codec: c, Quality: q}, nil
}

func runExecute(cmd *cobra.Command, args []string) error {
	params, err := assembleParams(cmd, args[0])
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	dir := outDir(cmd)
	if err := ensureDir(dir); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}

	client, log := newClient(cmd)
	orch := task.New(client, task.WithLogger(log))

	ctx := cmd.Context()
	if err := orch.Submit(ctx, params); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	out := cmd.OutOrStdout()
	tty := term.IsTerminal(int(os.Stdout.Fd()))

	var final model.Snapshot
	lastLine := ""
consume:
	for {
		select {
		case <-ctx.Done():
			orch.Cancel()
			return &ExitError{Code: ExitCLIError, Err: ctx.Err()}
		case s := <-orch.Snapshots():
			line := renderProgressLine(s)
			if tty {
				// Overwrite in place on a terminal.
				fmt.Fprintf(out, "\r\033[K%s", line)
			} else if line != lastLine {
				fmt.Fprintln(out, line)
			}
			lastLine = line
			if s.Lifecycle.Finished() {
				final = s
				break consume
			}
		}
	}
	if tty {
		fmt.Fprintln(out)
	}

	if final.Lifecycle == model.LifecycleErrored {
		return &ExitError{Code: taskExitCode(final.Err), Err: final.Err}
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); noSave {
		fmt.Fprintf(out, "Completed: %s\n", final.Title)
		return nil
	}

	path, derr := client.Download(ctx, final.TaskID, final.Title, dir)
	if derr != nil {
		return &ExitError{Code: ExitBackendError, Err: fmt.Errorf("saving the file: %v", derr)}
	}
	size := ""
	if final.FinalSizeBytes > 0 {
		size = " (" + format.HumanizeBytes(final.FinalSizeBytes) + ")"
	}
	fmt.Fprintf(out, "Saved: %s%s\n", path, size)
	return nil
}

func renderProgressLine(s model.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%3d%%] %-12s", s.Percent, s.Stage)
	if s.Rate > 0 {
		fmt.Fprintf(&b, " %s", format.HumanizeRate(s.Rate))
	}
	if s.ETASeconds > 0 {
		fmt.Fprintf(&b, " ETA %s", format.FormatETA(s.ETASeconds))
	}
	if s.Message != "" {
		fmt.Fprintf(&b, "  %s", s.Message)
	}
	return b.String()
}

func taskExitCode(err error) int {
	switch err.(type) {
	case *task.ConnectionLostError, *task.SubmissionError:
		return ExitBackendError
	default:
		return ExitTaskFailed
	}
}

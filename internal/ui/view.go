package ui

import (
	"fmt"
	"strings"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/progress"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/util/format"
)

var stageLabels = map[progress.Stage]string{
	progress.StageInitializing: "Initializing",
	progress.StageConnecting:   "Connecting",
	progress.StageStarting:     "Starting",
	progress.StageDownloading:  "Downloading",
	progress.StageProcessing:   "Converting",
	progress.StageEmbedding:    "Embedding metadata",
	progress.StageComplete:     "Complete",
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if m.inputActive() {
		b.WriteString(m.viewPrompt())
	} else {
		b.WriteString(m.viewTask())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Faint.Render(m.hints()))
	return m.styles.Box.Render(b.String())
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("vdc — video downloader & converter")
	return title
}

func (m Model) viewPrompt() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("URL"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewChoices())

	if m.info != nil {
		b.WriteString("\n\n")
		b.WriteString(m.viewPreview())
	}
	return b.String()
}

func (m Model) viewChoices() string {
	var b strings.Builder
	if m.kind == model.OutputAudio {
		b.WriteString(m.styles.Selected.Render("[ audio ]"))
		b.WriteString(m.styles.Faint.Render("  video "))
		b.WriteString("   ")
		b.WriteString(m.styles.Label.Render("format: "))
		for i, c := range model.AudioCodecs() {
			if i == m.codecIx {
				b.WriteString(m.styles.Selected.Render("‹" + string(c) + "›"))
			} else {
				b.WriteString(m.styles.Faint.Render(" " + string(c) + " "))
			}
		}
	} else {
		b.WriteString(m.styles.Faint.Render(" audio  "))
		b.WriteString(m.styles.Selected.Render("[ video ]"))
		b.WriteString("   ")
		b.WriteString(m.styles.Label.Render("quality: "))
		tiers := m.qualityChoices()
		ix := m.tierIx
		if ix >= len(tiers) {
			ix = 0
		}
		for i, q := range tiers {
			if i == ix {
				b.WriteString(m.styles.Selected.Render("‹" + string(q) + "›"))
			} else {
				b.WriteString(m.styles.Faint.Render(" " + string(q) + " "))
			}
		}
	}
	return b.String()
}

func (m Model) viewPreview() string {
	info := m.info
	var b strings.Builder
	b.WriteString(m.styles.Value.Render(info.Title))
	b.WriteString("\n")
	meta := info.Platform
	if info.Uploader != "" {
		meta += " • " + info.Uploader
	}
	if info.DurationFormatted != "" {
		meta += " • " + info.DurationFormatted
	}
	b.WriteString(m.styles.Subtitle.Render(meta))
	return b.String()
}

func (m Model) viewTask() string {
	s := m.snap
	var b strings.Builder

	b.WriteString(m.styles.Value.Render(truncate(s.Title, 64)))
	b.WriteString("\n\n")
	b.WriteString(m.viewStages())
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(s.Percent) / 100.0))
	b.WriteString(fmt.Sprintf(" %3d%%", s.Percent))
	b.WriteString("\n")
	b.WriteString(m.viewStats())

	if s.Message != "" {
		b.WriteString("\n")
		switch s.Lifecycle {
		case model.LifecycleErrored:
			b.WriteString(m.styles.Error.Render(s.Message))
		case model.LifecycleCompleted:
			b.WriteString(m.styles.Success.Render(s.Message))
		default:
			b.WriteString(m.styles.Label.Render(s.Message))
		}
	}

	if s.Lifecycle == model.LifecycleCompleted {
		b.WriteString("\n")
		if m.savedPath != "" {
			b.WriteString(m.styles.Success.Render("Saved: " + m.savedPath))
		} else if m.downloadIn {
			b.WriteString(m.spinner.View() + m.styles.Label.Render(" Saving..."))
		} else {
			ready := "✓ Ready to save"
			if s.Filename != "" {
				ready += ": " + s.Filename
			}
			b.WriteString(m.styles.Success.Render(ready))
		}
	}
	return b.String()
}

func (m Model) viewStages() string {
	var b strings.Builder
	for _, sv := range m.snap.Stages {
		label, ok := stageLabels[sv.Stage]
		if !ok {
			continue
		}
		switch {
		case sv.Done:
			b.WriteString(m.styles.StageDone.Render("  ✓ " + label))
		case sv.Active:
			b.WriteString(m.styles.StageLive.Render("  " + m.spinner.View() + label))
		default:
			b.WriteString(m.styles.StageTodo.Render("    " + label))
		}
		b.WriteString("\n")
	}
	// Retrying and error are transient overlays, not checklist rows.
	switch m.snap.Stage {
	case progress.StageRetrying:
		b.WriteString(m.styles.StageRetry.Render("  ↻ Retrying..."))
		b.WriteString("\n")
	case progress.StageError:
		b.WriteString(m.styles.Error.Render("  ✗ Failed"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewStats() string {
	s := m.snap
	parts := []string{}
	if s.Rate > 0 {
		parts = append(parts, format.HumanizeRate(s.Rate))
	}
	if s.ETASeconds > 0 {
		parts = append(parts, "ETA "+format.FormatETA(s.ETASeconds))
	}
	if s.TotalBytes > 0 {
		parts = append(parts, fmt.Sprintf("%s / %s",
			format.HumanizeBytes(s.DownloadedBytes), format.HumanizeBytes(s.TotalBytes)))
	} else if s.FinalSizeBytes > 0 {
		parts = append(parts, format.HumanizeBytes(s.FinalSizeBytes))
	}
	if len(parts) == 0 {
		// Mid-task with nothing measured yet reads better as pending
		// than as unknown.
		if s.Lifecycle == model.LifecyclePolling {
			return m.styles.Faint.Render(format.Calculating)
		}
		return m.styles.Faint.Render(format.Unknown)
	}
	return m.styles.Subtitle.Render(strings.Join(parts, " • "))
}

func (m Model) hints() string {
	switch m.snap.Lifecycle {
	case model.LifecycleIdle:
		return "enter: start • tab: audio/video • ↑/↓: format • q: quit"
	case model.LifecycleSubmitting, model.LifecyclePolling:
		return "c: cancel • q: quit"
	case model.LifecycleCancelling:
		return "cancelling..."
	case model.LifecycleCompleted:
		return "d: save file • n: new download • q: quit"
	case model.LifecycleErrored:
		return "r: retry • n: new download • q: quit"
	}
	return ""
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

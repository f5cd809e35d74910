package ui

import (
	"context"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/api"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/preview"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/task"
)

// Model drives the single-task interactive session: one URL input with
// a live metadata preview, then the submitted task's stage checklist and
// progress until completion.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	orch    *task.Orchestrator
	watcher *preview.Watcher
	client  *api.Client
	outDir  string

	snap       model.Snapshot
	info       *model.PreviewInfo
	notice     string
	savedPath  string
	downloadIn bool

	input   textinput.Model
	kind    model.OutputKind
	codecIx int
	tierIx  int

	width, height int
	styles        Styles
	spinner       spinner.Model
	bar           bubblesprogress.Model
}

func NewModel(ctx context.Context, orch *task.Orchestrator, watcher *preview.Watcher, client *api.Client, outDir string) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Paste a video URL (YouTube, Instagram, TikTok, Facebook, X)"
	ti.CharLimit = 512
	ti.Width = 64
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sty.Spinner

	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)

	return Model{
		ctx:     c,
		cancel:  cancel,
		orch:    orch,
		watcher: watcher,
		client:  client,
		outDir:  outDir,
		snap:    orch.Snapshot(),
		input:   ti,
		kind:    model.OutputAudio,
		styles:  sty,
		spinner: sp,
		bar:     bar,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.listenSnapshotsCmd(),
		m.listenPreviewCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case snapshotMsg:
		m.snap = msg.S
		if m.snap.Lifecycle == model.LifecycleIdle && m.snap.TaskID == "" {
			m.input.Focus()
		}
		return m, m.listenSnapshotsCmd()

	case previewMsg:
		switch msg.E.Kind {
		case preview.EventResolved:
			info := msg.E.Info
			m.info = &info
			m.notice = ""
			if m.tierIx >= len(m.qualityChoices()) {
				m.tierIx = 0
			}
		case preview.EventCleared:
			m.info = nil
			m.notice = ""
		case preview.EventFailed:
			m.info = nil
			m.notice = task.UserMessage(msg.E.Err)
		}
		return m, m.listenPreviewCmd()

	case downloadedMsg:
		m.downloadIn = false
		if msg.Err != nil {
			m.notice = "Could not save the file: " + msg.Err.Error()
		} else {
			m.savedPath = msg.Path
			m.notice = ""
		}

	case closedMsg:
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var c tea.Cmd
	m.spinner, c = m.spinner.Update(msg)
	if c != nil {
		cmds = append(cmds, c)
	}
	if m.inputActive() {
		m.input, c = m.input.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.orch.Cancel()
		m.cancel()
		return m, tea.Quit
	}

	switch m.snap.Lifecycle {
	case model.LifecycleIdle:
		switch msg.String() {
		case "q":
			if m.input.Value() == "" {
				m.cancel()
				return m, tea.Quit
			}
		case "enter":
			return m.submit()
		case "tab":
			if m.kind == model.OutputAudio {
				m.kind = model.OutputVideo
			} else {
				m.kind = model.OutputAudio
			}
			return m, nil
		case "up":
			m.cycleChoice(-1)
			return m, nil
		case "down":
			m.cycleChoice(1)
			return m, nil
		}
		var c tea.Cmd
		m.input, c = m.input.Update(msg)
		m.watcher.Update(m.input.Value())
		return m, c

	case model.LifecycleSubmitting, model.LifecyclePolling:
		switch msg.String() {
		case "c", "esc":
			m.orch.Cancel()
		case "q":
			m.orch.Cancel()
			m.cancel()
			return m, tea.Quit
		}

	case model.LifecycleCancelling:
		if msg.String() == "q" {
			m.cancel()
			return m, tea.Quit
		}

	case model.LifecycleCompleted:
		switch msg.String() {
		case "d":
			return m.download()
		case "n":
			return m.reset()
		case "q":
			m.cancel()
			return m, tea.Quit
		}

	case model.LifecycleErrored:
		switch msg.String() {
		case "r":
			m.notice = ""
			if err := m.orch.Retry(m.ctx); err != nil {
				m.notice = err.Error()
			}
		case "n":
			return m.reset()
		case "q":
			m.cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	// The tier list may have shrunk since the selection was made (a
	// preview resolving with fewer available tiers), so re-clamp.
	tiers := m.qualityChoices()
	ix := m.tierIx
	if ix >= len(tiers) {
		ix = 0
	}
	p := task.Params{
		URL:     m.input.Value(),
		Kind:    m.kind,
		Codec:   model.AudioCodecs()[m.codecIx],
		Quality: tiers[ix],
	}
	if err := m.orch.Submit(m.ctx, p); err != nil {
		m.notice = task.UserMessage(err)
		return m, nil
	}
	m.notice = ""
	m.savedPath = ""
	m.input.Blur()
	return m, nil
}

func (m Model) download() (tea.Model, tea.Cmd) {
	if m.downloadIn || m.savedPath != "" {
		return m, nil
	}
	m.downloadIn = true
	taskID, title, dir := m.snap.TaskID, m.snap.Title, m.outDir
	client := m.client
	ctx := m.ctx
	return m, func() tea.Msg {
		path, err := client.Download(ctx, taskID, title, dir)
		return downloadedMsg{Path: path, Err: err}
	}
}

func (m Model) reset() (tea.Model, tea.Cmd) {
	if err := m.orch.Reset(); err != nil {
		return m, nil
	}
	m.info = nil
	m.notice = ""
	m.savedPath = ""
	m.input.SetValue("")
	m.input.Focus()
	m.watcher.Update("")
	return m, nil
}

// cycleChoice moves the codec selection (audio) or quality selection
// (video) by delta, wrapping at the ends.
func (m *Model) cycleChoice(delta int) {
	if m.kind == model.OutputAudio {
		n := len(model.AudioCodecs())
		m.codecIx = ((m.codecIx+delta)%n + n) % n
		return
	}
	n := len(m.qualityChoices())
	if m.tierIx >= n {
		m.tierIx = 0
	}
	m.tierIx = ((m.tierIx+delta)%n + n) % n
}

// qualityChoices prefers the tiers the preview reported as available.
func (m Model) qualityChoices() []model.VideoQuality {
	if m.info != nil && len(m.info.AvailableTiers) > 0 {
		return m.info.AvailableTiers
	}
	return model.VideoQualities()
}

func (m Model) inputActive() bool {
	return m.snap.Lifecycle == model.LifecycleIdle
}

func (m Model) listenSnapshotsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return closedMsg{}
		case s := <-m.orch.Snapshots():
			return snapshotMsg{S: s}
		}
	}
}

func (m Model) listenPreviewCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return closedMsg{}
		case e := <-m.watcher.Events():
			return previewMsg{E: e}
		}
	}
}

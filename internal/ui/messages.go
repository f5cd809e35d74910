package ui

import (
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/model"
	"github.com/bugtijamal/vidoe-downloader-and-converter/internal/preview"
)

type snapshotMsg struct {
	S model.Snapshot
}

type previewMsg struct {
	E preview.Event
}

type downloadedMsg struct {
	Path string
	Err  error
}

type closedMsg struct{}

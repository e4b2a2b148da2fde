package main

import (
	"taskman/internal/config"
	"taskman/internal/process"
	"taskman/internal/schedule"
)

// TUI messages for the Elm architecture

// snapshotMsg carries a finished fetch back to the update loop
type snapshotMsg struct {
	snap *process.Snapshot
	err  error
}

// countdownMsg advances the auto-refresh countdown by one step
type countdownMsg struct {
	tick schedule.Tick
}

// batchResultMsg reports a finished terminate or kill batch
type batchResultMsg struct {
	result process.BatchResult
}

// copyResultMsg reports a clipboard write
type copyResultMsg struct {
	rows int
	err  error
}

// exportResultMsg reports a CSV export
type exportResultMsg struct {
	path string
	rows int
	err  error
}

// eventMsg delivers one event from the reporter subscription
type eventMsg struct {
	event process.Event
}

// configMsg delivers a reloaded config file
type configMsg struct {
	cfg config.Config
	err error
}

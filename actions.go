package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/export"
	"taskman/internal/process"
)

// dispatchCmd runs a terminate or kill batch off the update loop
func (m Model) dispatchCmd(op process.Op, targets []int32) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		var res process.BatchResult
		if op == process.OpKill {
			res = d.Kill(ctx, targets)
		} else {
			res = d.Terminate(ctx, targets)
		}
		return batchResultMsg{result: res}
	}
}

// copyCmd places rows on the clipboard
func (m Model) copyCmd(rows [][]string) tea.Cmd {
	clip := m.clipboard
	return func() tea.Msg {
		err := clip.Copy(export.ClipboardText(rows))
		return copyResultMsg{rows: len(rows), err: err}
	}
}

// exportCmd writes rows to path as CSV
func exportCmd(path string, rows [][]string) tea.Cmd {
	return func() tea.Msg {
		err := export.ToFile(path, rows)
		return exportResultMsg{path: path, rows: len(rows), err: err}
	}
}

// killTargets kills the selected rows, or the cursor row. A single target
// needs confirmation first.
func (m Model) killTargets() (tea.Model, tea.Cmd) {
	targets := m.targets()
	switch len(targets) {
	case 0:
		m.showNotice(process.LevelWarn, "No Selection", "No process selected. Please select a row to kill.")
		return m, nil
	case 1:
		m.pending = &pendingAction{op: process.OpKill, targets: targets}
		m.mode = modeConfirm
		return m, nil
	}
	return m, m.dispatchCmd(process.OpKill, pids(targets))
}

// killAllSelected is the multi-row kill. It refuses to act on fewer than two
// selected rows.
func (m Model) killAllSelected() (tea.Model, tea.Cmd) {
	selected := m.selectedRecords()
	switch len(selected) {
	case 0:
		m.showNotice(process.LevelWarn, "No Selection", "No rows selected. Please select multiple processes to use this button.")
		return m, nil
	case 1:
		m.showNotice(process.LevelInfo, "Action Restricted", "This button is for killing multiple processes. Use 'Kill PID' for single rows.")
		return m, nil
	}
	m.pending = &pendingAction{op: process.OpKill, targets: selected}
	m.mode = modeConfirm
	return m, nil
}

// prompt is the y/n question for the pending targets
func (p *pendingAction) prompt() string {
	if len(p.targets) == 1 {
		return fmt.Sprintf("Are you sure you want to kill the process with PID %d (%s)?", p.targets[0].PID, p.targets[0].Name)
	}
	return fmt.Sprintf("You are about to kill %d processes. Are you sure?", len(p.targets))
}

// revalidatePending drops confirmation targets that exited or whose PID now
// belongs to a different program. The prompt is cancelled when none remain.
func (m *Model) revalidatePending() {
	if m.pending == nil {
		return
	}
	kept := m.pending.targets[:0:0]
	for _, t := range m.pending.targets {
		if r, ok := m.cache.Lookup(t.PID); ok && r.Name == t.Name {
			kept = append(kept, t)
		}
	}
	if dropped := len(m.pending.targets) - len(kept); dropped > 0 {
		m.log.Info("pending targets changed", "dropped", dropped, "kept", len(kept))
	}
	m.pending.targets = kept
	if len(kept) == 0 {
		m.pending = nil
		m.mode = modeNormal
		m.setStatus(process.LevelWarn, "Kill cancelled: the process is no longer running.")
	}
}

// terminateTargets asks the selected rows, or the cursor row, to exit
func (m Model) terminateTargets() (tea.Model, tea.Cmd) {
	targets := m.targets()
	if len(targets) == 0 {
		m.setStatus(process.LevelWarn, "No process selected.")
		return m, nil
	}
	return m, m.dispatchCmd(process.OpTerminate, pids(targets))
}

// copySelected copies the selected rows' visible values
func (m Model) copySelected() (tea.Model, tea.Cmd) {
	selected := m.selectedRecords()
	if len(selected) == 0 {
		m.setStatus(process.LevelWarn, "No row selected.")
		return m, nil
	}
	return m, m.copyCmd(export.Rows(selected))
}

// exportSelected opens the destination prompt for the selected rows
func (m Model) exportSelected() (tea.Model, tea.Cmd) {
	selected := m.selectedRecords()
	if len(selected) == 0 {
		m.setStatus(process.LevelWarn, "No row selected.")
		return m, nil
	}
	m.exportRows = export.Rows(selected)
	m.exportInput.SetValue(DefaultExportName)
	m.exportInput.CursorEnd()
	m.mode = modeExport
	cmd := m.exportInput.Focus()
	return m, cmd
}

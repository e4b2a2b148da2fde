// Package main implements taskman, a TUI application for inspecting and
// stopping running processes.
//
// taskman provides an interactive terminal interface to:
//   - View every process with its status, CPU, memory and executable path
//   - Search by name or by a comma-separated list of PIDs
//   - Sort by any column, toggling direction on each press
//   - Select rows and terminate or kill them, singly or in batches
//   - Copy selected rows to the clipboard or export them to CSV
//   - Auto-refresh the list on a fixed countdown
//
// The application uses the Bubbletea framework with the Elm architecture pattern
// for state management. Process snapshots are fetched in commands and handed
// back to the update loop as messages, so the cache is only ever written from
// one place.
//
// # Architecture
//
// The codebase is organized into the following components:
//
//   - model.go: Core TUI model with Init and Update
//   - actions.go: Kill, terminate, copy and export rules
//   - view.go: Rendering
//   - cmd.go: Cobra commands (interactive, list, kill, version)
//   - styles.go: Lipgloss styles for terminal rendering
//   - keys.go: Key bindings configuration
//   - messages.go: TUI message types for the Elm architecture
//   - helpers.go: Utility functions for string formatting
//   - internal/process: snapshot provider, cache, query, sort, dispatcher
//   - internal/export: column formatting, clipboard, CSV
//   - internal/schedule: the auto-refresh countdown
//   - internal/config: YAML settings, reloaded when the file changes
//   - internal/logutil: structured logging
//
// # Extensibility
//
// Custom icon resolvers can be registered using process.RegisterResolver:
//
//	process.RegisterResolver(&MyResolver{})
//
// The process.Provider and process.Controller interfaces allow for custom
// implementations and easier testing through dependency injection.
package main

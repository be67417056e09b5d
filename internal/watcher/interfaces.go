// Package watcher reports debounced changes to spec files so that a
// comparison can be re-run while a spec is being edited.
package watcher

import "context"

// FileWatcher monitors spec files for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching, calling callback with the sorted set of changed files.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	// A comparison pauses the watcher while it runs.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

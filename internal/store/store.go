// Package store persists task records. A task row is written at creation
// (PENDING), when a worker picks it up (IN_PROGRESS), and once at terminal
// completion; the terminal write replaces status, message, result and
// updated_at in a single statement so status reads never observe a
// partially-updated row.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-scout/internal/model"
)

// ErrNotFound is returned for lookups of unknown task ids.
var ErrNotFound = eris.New("store: task not found")

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	Status model.TaskStatus `json:"status,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for task records.
type Store interface {
	// CreateTask inserts a new task in state PENDING and returns it.
	CreateTask(ctx context.Context) (*model.Task, error)

	// MarkInProgress transitions a task to IN_PROGRESS when a worker
	// picks it up.
	MarkInProgress(ctx context.Context, taskID string) error

	// FinishTask performs the single terminal write: status, message,
	// result, and a fresh updated_at, atomically.
	FinishTask(ctx context.Context, taskID string, status model.TaskStatus, message string, result *model.ScrapeResult) error

	// GetTask returns a task by id, or ErrNotFound.
	GetTask(ctx context.Context, taskID string) (*model.Task, error)

	// ListTasks returns tasks newest-first, optionally filtered.
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)

	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error

	Close() error
}

// Package task orchestrates the lifecycle of scrape tasks: submission,
// bounded-concurrency execution, terminal persistence and webhook delivery.
package task

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-scout/internal/model"
	"github.com/sells-group/contact-scout/internal/pipeline"
	"github.com/sells-group/contact-scout/internal/store"
	"github.com/sells-group/contact-scout/internal/webhook"
)

// ErrEmptyEntityName rejects submissions without an entity name.
var ErrEmptyEntityName = eris.New("task: entity_name is required")

// terminalWriteTimeout bounds the final status write when the manager's
// context is already gone (shutdown).
const terminalWriteTimeout = 5 * time.Second

// Runner executes the scrape pipeline for one entity.
type Runner interface {
	Run(ctx context.Context, entityName string) *pipeline.Outcome
}

// Manager accepts task submissions and runs them asynchronously. Each
// submitted task waits in FIFO order on the concurrency gate, runs the
// pipeline, writes its terminal state exactly once, then fires the
// webhook.
type Manager struct {
	store    store.Store
	runner   Runner
	gate     *pipeline.Gate
	notifier *webhook.Notifier

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager wires the manager's dependencies. Close must be called to
// drain in-flight tasks.
func NewManager(st store.Store, runner Runner, gate *pipeline.Gate, notifier *webhook.Notifier) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:    st,
		runner:   runner,
		gate:     gate,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit creates a PENDING task and schedules it for execution. It
// returns immediately; the pipeline runs in the background.
func (m *Manager) Submit(ctx context.Context, req model.SubmitRequest) (*model.Task, error) {
	entityName := strings.TrimSpace(req.EntityName)
	if entityName == "" {
		return nil, ErrEmptyEntityName
	}

	t, err := m.store.CreateTask(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "task: create")
	}

	m.wg.Add(1)
	go m.execute(t.ID, entityName)

	zap.L().Info("task submitted",
		zap.String("task_id", t.ID),
		zap.String("entity_name", entityName))
	return t, nil
}

// Get returns a task by id.
func (m *Manager) Get(ctx context.Context, taskID string) (*model.Task, error) {
	return m.store.GetTask(ctx, taskID)
}

// List returns tasks newest-first, optionally filtered.
func (m *Manager) List(ctx context.Context, filter store.TaskFilter) ([]model.Task, error) {
	return m.store.ListTasks(ctx, filter)
}

// Close stops accepting work for queued tasks and waits for in-flight
// pipelines to reach their terminal write.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) execute(taskID, entityName string) {
	defer m.wg.Done()
	log := zap.L().With(zap.String("task_id", taskID))

	if err := m.gate.Acquire(m.ctx); err != nil {
		log.Warn("task abandoned before execution", zap.Error(err))
		m.finish(taskID, model.TaskStatusFailure, "Task canceled before execution", nil)
		return
	}
	defer m.gate.Release()

	if err := m.store.MarkInProgress(m.ctx, taskID); err != nil {
		log.Warn("failed to mark task in progress", zap.Error(err))
	}

	outcome := m.runner.Run(m.ctx, entityName)
	m.finish(taskID, outcome.Status, outcome.Message, outcome.Result)

	notifyCtx, cancel := context.WithTimeout(context.Background(), terminalWriteTimeout)
	defer cancel()
	m.notifier.Notify(notifyCtx, taskID, model.WebhookPayload{
		Status:  outcome.Status,
		Message: outcome.Message,
		Result:  outcome.Result,
	})
}

// finish performs the terminal write on a fresh context so a canceled
// manager context cannot lose the final state.
func (m *Manager) finish(taskID string, status model.TaskStatus, message string, result *model.ScrapeResult) {
	ctx, cancel := context.WithTimeout(context.Background(), terminalWriteTimeout)
	defer cancel()

	if err := m.store.FinishTask(ctx, taskID, status, message, result); err != nil {
		zap.L().Error("failed to persist terminal task state",
			zap.String("task_id", taskID),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	zap.L().Info("task finished",
		zap.String("task_id", taskID),
		zap.String("status", string(status)),
		zap.String("message", message))
}

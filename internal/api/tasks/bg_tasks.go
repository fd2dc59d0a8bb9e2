package tasks

import (
	"context"
	"log/slog"
	"sync"
)

type Task = func()

// BackgroudTasks runs fire-and-forget tasks (emails) on a fixed number of
// workers. Shutdown waits for the queued tasks to finish.
type BackgroudTasks struct {
	log        *slog.Logger
	tasks      chan Task
	maxWorkers int
	wg         *sync.WaitGroup
	closeOnce  sync.Once
}

func New(log *slog.Logger, maxWorkers int, maxTasksQueueSize int) *BackgroudTasks {
	return &BackgroudTasks{
		log:        log,
		maxWorkers: max(maxWorkers, 1),
		wg:         &sync.WaitGroup{},
		tasks:      make(chan Task, maxTasksQueueSize),
	}
}

func (t *BackgroudTasks) Run() {
	for i := 0; i < t.maxWorkers; i++ {
		t.wg.Add(1)
		go func(worker int) {
			defer t.wg.Done()
			log := t.log.With("worker", worker)
			for task := range t.tasks {
				t.runTask(log, task)
			}
		}(i)
	}
}

// runTask keeps a panicking task from taking its worker down.
func (t *BackgroudTasks) runTask(log *slog.Logger, task Task) {
	defer func() {
		if err := recover(); err != nil {
			log.Error("panic", "err", err)
		}
	}()
	task()
	log.Debug("task done")
}

func (t *BackgroudTasks) Add(task Task) {
	t.tasks <- task
}

func (t *BackgroudTasks) Shutdown(ctx context.Context) error {
	const op = "tasks.BackgroudTasks.Shutdown"
	log := t.log.With("op", op)
	log.Info("shutting down background tasks")
	t.closeOnce.Do(func() { close(t.tasks) })
	shutdownCh := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(shutdownCh)
	}()
	select {
	case <-ctx.Done():
		log.Warn("graceful shutdown timed out.. forcing exit", "timeout", ctx.Err())
		return ctx.Err()
	case <-shutdownCh:
		log.Info("Background tasks succesfully stopped")
		return nil
	}
}

func (t *BackgroudTasks) IsEmpty() bool {
	return len(t.tasks) == 0
}

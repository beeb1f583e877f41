// Package tasks runs long effects and scenes detached from whoever asked for them.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type State string

const (
	Started  State = "started"
	Finished State = "finished"
)

// Task is a running background job.
type Task struct {
	ID      uint64    `json:"id"`
	Name    string    `json:"name"`
	Started time.Time `json:"started"`
}

// Event reports a task starting or finishing.
type Event struct {
	Task
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Runner starts tasks on their own goroutines. There is no limit on how many run at once, and a started task
// always runs to completion.
type Runner struct {
	mu        sync.Mutex
	nextID    uint64
	running   map[uint64]Task
	listeners []func(Event)

	// idle is closed whenever no task is running. Go replaces it when the first task starts.
	idle chan struct{}
}

func NewRunner() *Runner {
	idle := make(chan struct{})
	close(idle)
	return &Runner{
		running: make(map[uint64]Task),
		idle:    idle,
	}
}

// OnEvent registers fn to be called for every task event. fn must not block.
func (r *Runner) OnEvent(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = append(r.listeners, fn)
}

// Go runs fn in the background and returns the id of the new task. A panic in fn is logged and ends the task.
func (r *Runner) Go(name string, fn func() error) uint64 {
	r.mu.Lock()
	r.nextID++
	t := Task{ID: r.nextID, Name: name, Started: time.Now()}
	if len(r.running) == 0 {
		r.idle = make(chan struct{})
	}
	r.running[t.ID] = t
	r.mu.Unlock()

	r.publish(Event{Task: t, State: Started})
	log.Debugf("Task %d (%s) started", t.ID, name)

	go func() {
		err := run(fn)
		if err != nil {
			log.WithError(err).Warnf("Task %d (%s) failed", t.ID, name)
		} else {
			log.Debugf("Task %d (%s) done after %v", t.ID, name, time.Since(t.Started).Round(time.Millisecond))
		}

		e := Event{Task: t, State: Finished}
		if err != nil {
			e.Error = err.Error()
		}
		r.publish(e)

		r.mu.Lock()
		delete(r.running, t.ID)
		if len(r.running) == 0 {
			close(r.idle)
		}
		r.mu.Unlock()
	}()

	return t.ID
}

func run(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

func (r *Runner) publish(e Event) {
	r.mu.Lock()
	listeners := make([]func(Event), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// Running lists the tasks that have not finished yet, oldest first.
func (r *Runner) Running() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]Task, 0, len(r.running))
	for _, t := range r.running {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

// Wait blocks until every task has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	idle := r.idle
	r.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

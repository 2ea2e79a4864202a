package storefront

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled task. Stop is idempotent.
type Stopper interface {
	Stop()
}

// Scheduler starts fn every interval until the returned Stopper is stopped.
type Scheduler func(interval time.Duration, fn func()) Stopper

// Task is a periodic callback running on its own goroutine.
type Task struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Every runs fn every interval until Stop is called.
func Every(interval time.Duration, fn func()) Stopper {
	t := &Task{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for a running callback to return.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

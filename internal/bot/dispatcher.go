package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// op is one queued command execution.
type op struct {
	id   string
	name string
	fn   func(ctx context.Context) error
}

// Dispatcher runs command handlers on a bounded worker pool so a slow
// database or renderer cannot stall the event loop feeding it.
type Dispatcher struct {
	logger *slog.Logger

	queue       chan *op
	queueSize   int
	workerCount int
	opTimeout   time.Duration

	done chan struct{}

	mu sync.RWMutex
	wg sync.WaitGroup

	processedCount int64
	failedCount    int64
}

// DispatcherConfig contains configuration for the dispatcher.
type DispatcherConfig struct {
	QueueSize   int
	WorkerCount int
	OpTimeout   time.Duration
}

// DefaultDispatcherConfig returns the default dispatcher configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:   64,
		WorkerCount: 4,
		OpTimeout:   15 * time.Second,
	}
}

// NewDispatcher creates a dispatcher; call Start before submitting.
func NewDispatcher(config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.OpTimeout <= 0 {
		config.OpTimeout = 15 * time.Second
	}

	return &Dispatcher{
		logger:      logger,
		queue:       make(chan *op, config.QueueSize),
		queueSize:   config.QueueSize,
		workerCount: config.WorkerCount,
		opTimeout:   config.OpTimeout,
		done:        make(chan struct{}),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	d.logger.Info("Starting command dispatcher",
		"workers", d.workerCount,
		"queueSize", d.queueSize,
		"opTimeout", d.opTimeout.String())

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Submit queues fn for execution and returns its correlation id. A
// full queue rejects the command instead of blocking the caller.
func (d *Dispatcher) Submit(name string, fn func(ctx context.Context) error) (string, error) {
	o := &op{
		id:   uuid.NewString(),
		name: name,
		fn:   fn,
	}

	select {
	case <-d.done:
		return "", fmt.Errorf("dispatcher is shutting down")
	default:
	}

	select {
	case d.queue <- o:
		d.logger.Debug("Command queued", "opId", o.id, "command", name)
		return o.id, nil
	default:
		d.logger.Warn("Command queue full, rejecting", "command", name)
		return "", fmt.Errorf("command queue is full")
	}
}

// Stop drains the workers, waiting up to timeout.
func (d *Dispatcher) Stop(timeout time.Duration) error {
	d.logger.Info("Stopping command dispatcher")
	close(d.done)

	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		d.logger.Info("Command dispatcher stopped cleanly")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("dispatcher shutdown timed out after %v", timeout)
	}
}

// IsRunning reports whether the dispatcher accepts submissions.
func (d *Dispatcher) IsRunning() bool {
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

// QueueLength returns the number of commands waiting for a worker.
func (d *Dispatcher) QueueLength() int {
	return len(d.queue)
}

// Stats returns dispatcher counters for diagnostics.
func (d *Dispatcher) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]any{
		"queueLength":    len(d.queue),
		"queueCapacity":  d.queueSize,
		"workerCount":    d.workerCount,
		"processedTotal": d.processedCount,
		"failedTotal":    d.failedCount,
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("Dispatcher worker started", "workerId", id)

	for {
		select {
		case o, ok := <-d.queue:
			if !ok {
				return
			}
			d.process(o)

		case <-d.done:
			d.logger.Debug("Dispatcher worker stopping", "workerId", id)
			return
		}
	}
}

func (d *Dispatcher) process(o *op) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opTimeout)
	defer cancel()

	start := time.Now()
	err := o.fn(ctx)
	duration := time.Since(start)

	d.mu.Lock()
	if err != nil {
		d.failedCount++
	} else {
		d.processedCount++
	}
	d.mu.Unlock()

	if err != nil {
		d.logger.Error("Command failed",
			"opId", o.id,
			"command", o.name,
			"error", err.Error(),
			"duration", duration.String())
		return
	}
	d.logger.Debug("Command completed",
		"opId", o.id,
		"command", o.name,
		"duration", duration.String())
}

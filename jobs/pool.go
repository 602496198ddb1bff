package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Kind string

const (
	KindDetect Kind = "detect"
	KindExport Kind = "export"
	KindGIF    Kind = "gif"
	KindLoad   Kind = "load"
)

var ErrClosed = errors.New("jobs: pool closed")

// Func is one unit of background work. It must not touch state owned by
// the interactive goroutine; whatever it needs to hand back goes in the
// returned value.
type Func func(ctx context.Context) (any, error)

// Result is posted to the completion queue when a task finishes.
type Result struct {
	ID         uint64
	Kind       Kind
	Generation uint64
	Value      any
	Err        error
	Elapsed    time.Duration
}

// Pool runs fire-and-forget tasks on a bounded number of workers. Results
// are queued in completion order and handed to whoever calls Drain.
type Pool struct {
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup
	nextID atomic.Uint64

	mu     sync.Mutex
	queue  []Result
	closed bool
	notify chan struct{}
}

func NewPool(workers int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		log:    log.With().Str("component", "jobs").Logger(),
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, workers),
		notify: make(chan struct{}, 1),
	}
}

func (p *Pool) Workers() int { return cap(p.sem) }

// Submit schedules fn and returns immediately with the task id.
func (p *Pool) Submit(kind Kind, generation uint64, fn Func) uint64 {
	id := p.nextID.Add(1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.push(Result{ID: id, Kind: kind, Generation: generation, Err: ErrClosed})
		return id
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go p.run(id, kind, generation, fn)
	return id
}

func (p *Pool) run(id uint64, kind Kind, generation uint64, fn Func) {
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-p.ctx.Done():
		p.push(Result{ID: id, Kind: kind, Generation: generation, Err: p.ctx.Err()})
		return
	}
	defer func() { <-p.sem }()

	start := time.Now()
	value, err := p.call(fn)
	res := Result{
		ID:         id,
		Kind:       kind,
		Generation: generation,
		Value:      value,
		Err:        err,
		Elapsed:    time.Since(start),
	}
	if err != nil {
		p.log.Debug().Err(err).Uint64("id", id).Str("kind", string(kind)).Msg("task failed")
	}
	p.push(res)
}

func (p *Pool) call(fn Func) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("task panicked")
			value = nil
			err = fmt.Errorf("jobs: task panicked: %v", r)
		}
	}()
	return fn(p.ctx)
}

func (p *Pool) push(r Result) {
	p.mu.Lock()
	p.queue = append(p.queue, r)
	p.mu.Unlock()
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Drain removes and returns every finished result in completion order.
func (p *Pool) Drain() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil
	}
	out := p.queue
	p.queue = nil
	return out
}

// Notify fires at least once after results become available.
func (p *Pool) Notify() <-chan struct{} { return p.notify }

// Wait blocks until every submitted task has posted its result.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close cancels outstanding tasks and waits for workers to exit. Tasks
// submitted afterwards fail with ErrClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

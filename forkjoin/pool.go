package forkjoin

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Monitor receives scheduling events from a Pool.
type Monitor interface {
	// OnSpawn is called when a split half starts on a freshly acquired slot.
	OnSpawn(worker int)
	// OnInline is called when a split half runs on the splitting worker because no slot was free.
	OnInline(worker int)
	// OnPanic records a panic raised by a task before it is propagated.
	OnPanic(worker int, v any)
}

type NoopMonitor struct{}

func (NoopMonitor) OnSpawn(worker int)        {}
func (NoopMonitor) OnInline(worker int)       {}
func (NoopMonitor) OnPanic(worker int, v any) {}

type PoolOption func(*Pool)

// WithMonitor sets the monitor for the pool.
func WithMonitor(m Monitor) PoolOption {
	if m == nil {
		panic("forkjoin.WithMonitor: monitor cannot be nil")
	}
	return func(p *Pool) {
		p.monitor = m
	}
}

// Pool is a fixed set of worker slots.
type Pool struct {
	width   int
	slots   chan int // free slot indices
	monitor Monitor
}

// NewPool creates a pool with width slots. A width below 1 is raised to 1.
func NewPool(width int, opts ...PoolOption) *Pool {
	if width < 1 {
		width = 1
	}
	p := &Pool{
		width:   width,
		slots:   make(chan int, width),
		monitor: NoopMonitor{},
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := range width {
		p.slots <- i
	}
	return p
}

var defaultPool = sync.OnceValue(func() *Pool {
	return NewPool(runtime.GOMAXPROCS(0))
})

// Default returns the process-wide pool, sized by GOMAXPROCS when first used.
func Default() *Pool {
	return defaultPool()
}

// CurrentWorkerCount returns the width of the default pool (always >= 1).
func CurrentWorkerCount() int {
	return Default().width
}

// Width returns the number of slots.
func (p *Pool) Width() int {
	return p.width
}

// Install runs fn on a slot of p and waits for it, blocking until a slot is free.
// Tasks already running on p must use InstallFrom with their own Worker instead.
func (p *Pool) Install(fn func(Worker)) {
	p.InstallFrom(Worker{}, fn)
}

// InstallFrom runs fn on w when w belongs to p, and behaves like Install otherwise.
func (p *Pool) InstallFrom(w Worker, fn func(Worker)) {
	if w.pool == p {
		fn(w)
		return
	}
	idx := <-p.slots
	defer p.release(idx)
	if tp := p.runRecovered(Worker{pool: p, index: idx}, fn); tp != nil {
		panic(tp)
	}
}

// Scope runs fn once per slot, concurrently, and waits for all of them.
// Each invocation receives a distinct Worker index in [0, Width).
func (p *Pool) Scope(fn func(Worker)) {
	var wg sync.WaitGroup
	panics := make([]*TaskPanic, p.width)
	for range p.width {
		idx := <-p.slots
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer p.release(idx)
			panics[idx] = p.runRecovered(Worker{pool: p, index: idx}, fn)
		}()
	}
	wg.Wait()
	for _, v := range panics {
		if v != nil {
			panic(v)
		}
	}
}

func (p *Pool) tryAcquire() (int, bool) {
	select {
	case idx := <-p.slots:
		return idx, true
	default:
		return 0, false
	}
}

func (p *Pool) release(idx int) {
	p.slots <- idx
}

// TaskPanic is the value re-raised when a task panics.
type TaskPanic struct {
	Worker int
	Value  any
	Stack  []byte
}

func (tp *TaskPanic) Error() string {
	return fmt.Sprintf("forkjoin: task panic on worker %d: %v\nStack: %s", tp.Worker, tp.Value, tp.Stack)
}

func (tp *TaskPanic) Unwrap() error {
	err, _ := tp.Value.(error)
	return err
}

// runRecovered runs fn and returns the recovered panic, if any.
// Panics already wrapped by a nested join are passed through unreported.
func (p *Pool) runRecovered(w Worker, fn func(Worker)) (tp *TaskPanic) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if inner, ok := r.(*TaskPanic); ok {
			tp = inner
			return
		}
		p.monitor.OnPanic(w.index, r)
		tp = &TaskPanic{Worker: w.index, Value: r, Stack: debug.Stack()}
	}()
	fn(w)
	return nil
}

// join runs a on w and b either on a free slot or inline after a.
// b is told whether it was moved to another worker.
func (p *Pool) join(w Worker, a func(Worker), b func(w Worker, migrated bool)) {
	idx, ok := p.tryAcquire()
	if !ok {
		p.monitor.OnInline(w.index)
		a(w)
		b(w, false)
		return
	}

	var wg sync.WaitGroup
	var bPanic *TaskPanic
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.release(idx)
		p.monitor.OnSpawn(idx)
		bPanic = p.runRecovered(Worker{pool: p, index: idx}, func(bw Worker) {
			b(bw, true)
		})
	}()

	aPanic := p.runRecovered(w, a)
	wg.Wait()
	if aPanic != nil {
		panic(aPanic)
	}
	if bPanic != nil {
		panic(bPanic)
	}
}

func (p *Pool) String() string {
	return fmt.Sprintf("Pool[width=%d]", p.width)
}

// Worker identifies the slot a task is running on.
// The zero Worker stands for code running outside any pool.
type Worker struct {
	pool  *Pool
	index int
}

// Index returns the slot index, or false outside a pool.
func (w Worker) Index() (int, bool) {
	if w.pool == nil {
		return 0, false
	}
	return w.index, true
}

// Pool returns the pool the worker belongs to, nil outside a pool.
func (w Worker) Pool() *Pool {
	return w.pool
}

// Managed reports whether w runs inside a pool.
func (w Worker) Managed() bool {
	return w.pool != nil
}

func (w Worker) String() string {
	if w.pool == nil {
		return "Worker[unmanaged]"
	}
	return fmt.Sprintf("Worker[%d/%d]", w.index, w.pool.width)
}

package lookup

import "sync"

// Dispatcher runs functions on the goroutine that owns the render buffer.
// DoAndWait returns once fn has run or has been dropped.
type Dispatcher interface {
	DoAndWait(fn func())
}

// DispatcherFunc adapts a plain function such as fyne.DoAndWait to the
// Dispatcher interface
type DispatcherFunc func(fn func())

// DoAndWait calls f(fn)
func (f DispatcherFunc) DoAndWait(fn func()) {
	f(fn)
}

type step struct {
	fn    func()
	done  chan struct{}
	panic any
}

// SerialDispatcher executes steps one at a time on its own goroutine. It
// stands in for a UI event loop in the command line modes and in tests.
type SerialDispatcher struct {
	steps     chan *step
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSerialDispatcher starts a dispatcher goroutine
func NewSerialDispatcher() *SerialDispatcher {
	d := &SerialDispatcher{
		steps:  make(chan *step),
		closed: make(chan struct{}),
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

func (d *SerialDispatcher) loop() {
	defer d.wg.Done()
	for {
		select {
		case s := <-d.steps:
			d.run(s)
		case <-d.closed:
			return
		}
	}
}

func (d *SerialDispatcher) run(s *step) {
	defer close(s.done)
	defer func() {
		s.panic = recover()
	}()
	s.fn()
}

// DoAndWait runs fn on the dispatcher goroutine. A panic in fn is re-raised
// in the caller. After Close, fn is dropped.
func (d *SerialDispatcher) DoAndWait(fn func()) {
	s := &step{fn: fn, done: make(chan struct{})}
	select {
	case d.steps <- s:
	case <-d.closed:
		return
	}
	<-s.done
	if s.panic != nil {
		panic(s.panic)
	}
}

// Close stops the dispatcher goroutine. It is safe to call more than once.
func (d *SerialDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.closed)
	})
	d.wg.Wait()
}

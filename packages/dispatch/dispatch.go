package dispatch

import "sync"

// Dispatcher runs functions on some execution context.
type Dispatcher interface {
	Dispatch(fn func())
}

// Immediate runs functions inline on the calling goroutine.
type Immediate struct{}

func (Immediate) Dispatch(fn func()) {
	fn()
}

// Serial runs functions one at a time, in submission order, on a single
// dedicated goroutine. It models a "main queue": everything dispatched to
// the same Serial observes a total order.
type Serial struct {
	jobs chan func()
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// DefaultQueueDepth is the buffer size for a Serial dispatcher's job queue.
const DefaultQueueDepth = 64

// NewSerial starts the dispatcher goroutine. Call Close when done.
func NewSerial() *Serial {
	s := &Serial{
		jobs: make(chan func(), DefaultQueueDepth),
		stop: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Serial) loop() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.jobs:
			fn()
		case <-s.stop:
			// Drain anything already queued before exiting.
			for {
				select {
				case fn := <-s.jobs:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Dispatch enqueues fn. After Close, fn is silently dropped.
func (s *Serial) Dispatch(fn func()) {
	select {
	case <-s.stop:
	case s.jobs <- fn:
	}
}

// Close stops the dispatcher after draining queued functions. It is safe
// to call multiple times.
func (s *Serial) Close() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

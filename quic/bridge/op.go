package bridge

import (
	"sync"

	"github.com/okdaichi/h3quic/quic"
)

// op runs one blocking engine call on its own goroutine and reports the
// outcome through polls. A completed outcome is handed out exactly once;
// the poll after that starts a new call.
type op[T any] struct {
	mu      sync.Mutex
	running bool
	done    bool
	val     T
	err     error
	waker   quic.Waker
}

// poll starts fn if no call is in flight and returns its outcome once
// available. The most recent waker is the one woken on completion.
func (o *op[T]) poll(w quic.Waker, fn func() (T, error)) (val T, ready bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.done {
		val, err = o.val, o.err
		o.reset()
		return val, true, err
	}

	o.waker = w
	if !o.running {
		o.running = true
		go o.run(fn)
	}
	return val, false, nil
}

// idle reports whether no call was started since the last handed out outcome.
func (o *op[T]) idle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.running
}

// busy reports whether a call is in flight, registering w if so.
func (o *op[T]) busy(w quic.Waker) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running && !o.done {
		o.waker = w
		return true
	}
	return false
}

// completed returns the outcome of a finished call without handing it out.
func (o *op[T]) completed() (val T, done bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.val, o.done, o.err
}

// claim hands out the outcome of a finished call, if any, without starting
// a new one.
func (o *op[T]) claim() (val T, done bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.done {
		return val, false, nil
	}
	val, err = o.val, o.err
	o.reset()
	return val, true, err
}

// wake wakes the waker of a pending poll, if any.
func (o *op[T]) wake() {
	o.mu.Lock()
	w := o.waker
	o.waker = nil
	o.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

func (o *op[T]) run(fn func() (T, error)) {
	val, err := fn()

	o.mu.Lock()
	o.val, o.err, o.done = val, err, true
	w := o.waker
	o.waker = nil
	o.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

func (o *op[T]) reset() {
	var zero T
	o.val, o.err = zero, nil
	o.done, o.running = false, false
	o.waker = nil
}

package quic

import "fmt"

// Waker is notified when an operation that returned Pending may make progress.
// Implementations must be safe to call from any goroutine and more than once.
type Waker interface {
	Wake()
}

// WakerFunc adapts an ordinary function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

type pollState uint8

const (
	statePending pollState = iota
	stateReady
	stateDone
)

// Poll is the outcome of a single non-blocking poll.
//
// A Poll is either pending, ready with a value, ready with an error, or done.
// Done is the terminal "no more items" signal (end of stream, no more incoming
// streams or datagrams) and is deliberately not an error.
type Poll[T any] struct {
	value T
	err   error
	state pollState
}

// Pending returns a Poll that reports no progress.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// Ready returns a Poll completed with v.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, state: stateReady}
}

// Fail returns a Poll completed with err.
func Fail[T any](err error) Poll[T] {
	return Poll[T]{err: err, state: stateReady}
}

// Done returns a Poll reporting that no more items will be produced.
func Done[T any]() Poll[T] {
	return Poll[T]{state: stateDone}
}

// IsPending reports whether the poll made no progress.
func (p Poll[T]) IsPending() bool { return p.state == statePending }

// IsReady reports whether the poll completed, with a value, an error, or Done.
func (p Poll[T]) IsReady() bool { return p.state != statePending }

// IsDone reports whether the poll signaled that no more items will arrive.
func (p Poll[T]) IsDone() bool { return p.state == stateDone }

// Value returns the completed value, or the zero value.
func (p Poll[T]) Value() T { return p.value }

// Err returns the error the poll completed with, if any.
func (p Poll[T]) Err() error { return p.err }

// Result returns the value and error of a completed poll.
func (p Poll[T]) Result() (T, error) { return p.value, p.err }

func (p Poll[T]) String() string {
	switch {
	case p.state == statePending:
		return "Pending"
	case p.state == stateDone:
		return "Done"
	case p.err != nil:
		return fmt.Sprintf("Ready(error: %v)", p.err)
	default:
		return fmt.Sprintf("Ready(%v)", p.value)
	}
}

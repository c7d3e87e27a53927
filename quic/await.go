package quic

import (
	"context"
)

// chanWaker parks a goroutine in Await until the next wake-up.
type chanWaker chan struct{}

func (w chanWaker) Wake() {
	select {
	case w <- struct{}{}:
	default:
	}
}

// Await drives poll from the calling goroutine until it completes or ctx is done.
// poll is only called again after the waker it registered has been woken.
// If ctx ends first, Await returns a Poll failed with ctx.Err().
func Await[T any](ctx context.Context, poll func(Waker) Poll[T]) Poll[T] {
	w := make(chanWaker, 1)
	for {
		p := poll(w)
		if p.IsReady() {
			return p
		}

		select {
		case <-w:
		case <-ctx.Done():
			return Fail[T](ctx.Err())
		}
	}
}

// WriteAll sends every remaining byte of buf on s.
func WriteAll(ctx context.Context, s SendStream, buf Buf) error {
	for buf.Remaining() > 0 {
		p := Await(ctx, func(w Waker) Poll[int] {
			return s.PollSend(w, buf)
		})
		if err := p.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Finish finishes the send half of s and waits for the engine to accept it.
func Finish(ctx context.Context, s SendStream) error {
	return Await(ctx, s.PollFinish).Err()
}

// ReadAll collects every chunk of r until end of stream.
func ReadAll(ctx context.Context, r RecvStream) ([]byte, error) {
	var data []byte
	for {
		p := Await(ctx, r.PollData)
		if p.IsDone() {
			return data, nil
		}
		chunk, err := p.Result()
		if err != nil {
			return data, err
		}
		data = append(data, chunk...)
	}
}

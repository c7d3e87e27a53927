package bridge

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/okdaichi/h3quic/quic"
)

var _ EngineConn = (*fakeConn)(nil)

// fakeConn is an in-memory EngineConn whose blocking calls behave like a
// goroutine based engine: they return once data arrives or the connection ends.
type fakeConn struct {
	ctx    context.Context
	cancel context.CancelFunc

	bidi      chan EngineStream
	uni       chan EngineReceiveStream
	datagrams chan []byte

	supportsDatagrams bool
	sendDatagramErr   error

	mu          sync.Mutex
	nextID      quic.StreamID
	closeErr    error
	closeCalls  int
	closeCode   quic.Code
	closeReason string
	sent        [][]byte
}

func newFakeConn() *fakeConn {
	ctx, cancel := context.WithCancel(context.Background())
	return &fakeConn{
		ctx:               ctx,
		cancel:            cancel,
		bidi:              make(chan EngineStream, 16),
		uni:               make(chan EngineReceiveStream, 16),
		datagrams:         make(chan []byte, 16),
		supportsDatagrams: true,
	}
}

func (c *fakeConn) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

// closeRemote simulates the peer closing the connection with code.
func (c *fakeConn) closeRemote(code quic.Code) {
	c.mu.Lock()
	c.closeErr = &quic.ApplicationError{Remote: true, ErrorCode: code}
	c.mu.Unlock()
	c.cancel()
}

func (c *fakeConn) AcceptStream(ctx context.Context) (EngineStream, error) {
	select {
	case str := <-c.bidi:
		return str, nil
	case <-ctx.Done():
		return nil, c.err()
	}
}

func (c *fakeConn) AcceptUniStream(ctx context.Context) (EngineReceiveStream, error) {
	select {
	case str := <-c.uni:
		return str, nil
	case <-ctx.Done():
		return nil, c.err()
	}
}

func (c *fakeConn) OpenStreamSync(ctx context.Context) (EngineStream, error) {
	if ctx.Err() != nil {
		return nil, c.err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID += 4
	return newFakeStream(id), nil
}

func (c *fakeConn) OpenUniStreamSync(ctx context.Context) (EngineSendStream, error) {
	if ctx.Err() != nil {
		return nil, c.err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID + 2
	c.nextID += 4
	return newFakeStream(id), nil
}

func (c *fakeConn) CloseWithError(code quic.Code, reason string) error {
	c.mu.Lock()
	c.closeCalls++
	c.closeCode = code
	c.closeReason = reason
	if c.closeErr == nil {
		c.closeErr = &quic.ApplicationError{ErrorCode: code, Reason: []byte(reason)}
	}
	c.mu.Unlock()
	c.cancel()
	return nil
}

func (c *fakeConn) Context() context.Context {
	return c.ctx
}

func (c *fakeConn) SupportsDatagrams() bool {
	return c.supportsDatagrams
}

func (c *fakeConn) SendDatagram(b []byte) error {
	if c.sendDatagramErr != nil {
		return c.sendDatagramErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, append([]byte(nil), b...))
	return nil
}

func (c *fakeConn) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	select {
	case b := <-c.datagrams:
		return b, nil
	case <-ctx.Done():
		return nil, c.err()
	}
}

var _ EngineStream = (*fakeStream)(nil)

// fakeStream is an in-memory EngineStream.
// Data sent to incoming is returned by Read; closing incoming ends the stream.
type fakeStream struct {
	id quic.StreamID

	incoming chan []byte
	readErr  chan error

	// writeFunc, if set, decides how much of each Write is accepted.
	writeFunc func(b []byte) (int, error)
	// writeGate, if set, blocks every Write until it is closed.
	writeGate chan struct{}

	readCanceled  chan struct{}
	writeCanceled chan struct{}
	cancelOnce    [2]sync.Once

	mu         sync.Mutex
	written    bytes.Buffer
	writes     int
	closeCalls int
	readCode   *quic.Code
	writeCode  *quic.Code
}

func newFakeStream(id quic.StreamID) *fakeStream {
	return &fakeStream{
		id:            id,
		incoming:      make(chan []byte, 16),
		readErr:       make(chan error, 1),
		readCanceled:  make(chan struct{}),
		writeCanceled: make(chan struct{}),
	}
}

func (s *fakeStream) StreamID() quic.StreamID {
	return s.id
}

func (s *fakeStream) Read(b []byte) (int, error) {
	select {
	case data, ok := <-s.incoming:
		if !ok {
			return 0, io.EOF
		}
		return copy(b, data), nil
	case err := <-s.readErr:
		return 0, err
	case <-s.readCanceled:
		return 0, &quic.StreamError{StreamID: s.id, ErrorCode: *s.readCodeValue()}
	}
}

func (s *fakeStream) Write(b []byte) (int, error) {
	if s.writeGate != nil {
		select {
		case <-s.writeGate:
		case <-s.writeCanceled:
			return 0, &quic.StreamError{StreamID: s.id, ErrorCode: *s.writeCodeValue()}
		}
	}

	n, err := len(b), error(nil)
	if s.writeFunc != nil {
		n, err = s.writeFunc(b)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.written.Write(b[:n])
	return n, err
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	return nil
}

func (s *fakeStream) CancelWrite(code quic.Code) {
	s.cancelOnce[0].Do(func() {
		s.mu.Lock()
		s.writeCode = &code
		s.mu.Unlock()
		close(s.writeCanceled)
	})
}

func (s *fakeStream) CancelRead(code quic.Code) {
	s.cancelOnce[1].Do(func() {
		s.mu.Lock()
		s.readCode = &code
		s.mu.Unlock()
		close(s.readCanceled)
	})
}

func (s *fakeStream) readCodeValue() *quic.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCode
}

func (s *fakeStream) writeCodeValue() *quic.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeCode
}

func (s *fakeStream) writtenString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.String()
}

func (s *fakeStream) closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// testWaker records wake-ups.
type testWaker struct {
	ch chan struct{}
}

func newTestWaker() *testWaker {
	return &testWaker{ch: make(chan struct{}, 1)}
}

func (w *testWaker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *testWaker) wait(t *testing.T) {
	t.Helper()
	select {
	case <-w.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("waker was not woken")
	}
}

// await drives poll to completion, failing the test after a timeout.
func await[T any](t *testing.T, poll func(quic.Waker) quic.Poll[T]) quic.Poll[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	p := quic.Await(ctx, poll)
	if ctx.Err() != nil {
		t.Fatal("poll did not complete in time")
	}
	return p
}

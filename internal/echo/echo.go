// Package echo implements a stream and datagram echo over quic.Connection.
package echo

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/okdaichi/h3quic/quic"
)

// CodeInternal is sent when an echoed stream fails.
const CodeInternal quic.Code = 0x1

// ErrNoDatagram is returned by PingDatagram if the connection stops delivering
// datagrams before the echo arrives.
var ErrNoDatagram = errors.New("echo: no datagram received")

// Serve echoes every bidirectional stream and every datagram received on conn.
// It returns once conn delivers no more streams, or ctx is done, and all
// echoes have completed.
func Serve(ctx context.Context, conn quic.Connection, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		serveDatagrams(ctx, conn, logger)
	}()

	for {
		p := quic.Await(ctx, conn.PollAcceptBidi)
		if p.IsDone() {
			return nil
		}
		str, err := p.Result()
		if err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			serveStream(ctx, str, logger)
		}()
	}
}

func serveStream(ctx context.Context, str quic.BidiStream, logger *slog.Logger) {
	id := str.RecvID()
	send, recv := str.Split()

	var n int
	for {
		p := quic.Await(ctx, recv.PollData)
		if p.IsDone() {
			break
		}
		chunk, err := p.Result()
		if err != nil {
			logger.Debug("failed to read stream",
				"stream_id", id,
				"error", err,
			)
			send.Reset(CodeInternal)
			return
		}

		if err := quic.WriteAll(ctx, send, quic.NewWriteBuf(chunk)); err != nil {
			logger.Debug("failed to write stream",
				"stream_id", id,
				"error", err,
			)
			recv.StopSending(CodeInternal)
			return
		}
		n += len(chunk)
	}

	if err := quic.Finish(ctx, send); err != nil {
		logger.Debug("failed to finish stream",
			"stream_id", id,
			"error", err,
		)
		return
	}

	logger.Debug("echoed stream",
		"stream_id", id,
		"bytes", n,
	)
}

func serveDatagrams(ctx context.Context, conn quic.Connection, logger *slog.Logger) {
	for {
		p := quic.Await(ctx, conn.PollAcceptDatagram)
		if p.IsDone() {
			return
		}
		data, err := p.Result()
		if err != nil {
			return
		}

		if err := conn.SendDatagram(data); err != nil {
			logger.Debug("failed to echo datagram",
				"size", len(data),
				"error", err,
			)
		}
	}
}

// Ping sends msg on a new bidirectional stream and returns the echo.
func Ping(ctx context.Context, conn quic.Connection, msg []byte) ([]byte, error) {
	str, err := quic.Await(ctx, conn.PollOpenBidi).Result()
	if err != nil {
		return nil, err
	}
	send, recv := str.Split()

	if err := quic.WriteAll(ctx, send, quic.NewWriteBuf(msg)); err != nil {
		return nil, err
	}
	if err := quic.Finish(ctx, send); err != nil {
		return nil, err
	}

	return quic.ReadAll(ctx, recv)
}

// PingDatagram sends msg as a datagram and returns the next datagram received.
func PingDatagram(ctx context.Context, conn quic.Connection, msg []byte) ([]byte, error) {
	if err := conn.SendDatagram(msg); err != nil {
		return nil, err
	}

	p := quic.Await(ctx, conn.PollAcceptDatagram)
	if p.IsDone() {
		return nil, ErrNoDatagram
	}
	return p.Result()
}

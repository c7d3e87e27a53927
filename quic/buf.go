package quic

// Buf is a cursor over bytes waiting to be written.
// A send attempt consumes exactly the bytes it accepted by calling Advance.
type Buf interface {
	// Remaining returns the number of bytes not yet consumed.
	Remaining() int

	// Chunk returns the next contiguous run of unconsumed bytes.
	// It is empty only if Remaining is zero.
	Chunk() []byte

	// Advance consumes n bytes. n must not exceed Remaining.
	Advance(n int)
}

var _ Buf = (*WriteBuf)(nil)

// WriteBuf is a Buf over a chain of byte slices, such as a frame header
// followed by its payload. The slices are not copied.
type WriteBuf struct {
	chunks    [][]byte
	remaining int
}

// NewWriteBuf returns a WriteBuf over chunks in order.
func NewWriteBuf(chunks ...[]byte) *WriteBuf {
	b := &WriteBuf{chunks: make([][]byte, 0, len(chunks))}
	for _, c := range chunks {
		if len(c) == 0 {
			continue
		}
		b.chunks = append(b.chunks, c)
		b.remaining += len(c)
	}
	return b
}

func (b *WriteBuf) Remaining() int {
	return b.remaining
}

func (b *WriteBuf) Chunk() []byte {
	if len(b.chunks) == 0 {
		return nil
	}
	return b.chunks[0]
}

func (b *WriteBuf) Advance(n int) {
	if n < 0 || n > b.remaining {
		panic("quic: advance past end of buffer")
	}
	b.remaining -= n
	for n > 0 {
		if n < len(b.chunks[0]) {
			b.chunks[0] = b.chunks[0][n:]
			return
		}
		n -= len(b.chunks[0])
		b.chunks[0] = nil
		b.chunks = b.chunks[1:]
	}
}

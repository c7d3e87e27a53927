package bridge

import (
	"log/slog"
)

const (
	defaultReadChunkSize  = 16 << 10
	defaultWriteChunkSize = 64 << 10
)

// Config contains options for bridging an engine connection.
type Config struct {
	// EnableDatagrams tells whether datagram support was enabled in the
	// engine's local configuration.
	EnableDatagrams bool

	// ReadChunkSize is the maximum size of a chunk returned by PollData.
	// If zero, 16 KiB is used.
	ReadChunkSize int

	// WriteChunkSize is the maximum number of bytes a single PollSend hands
	// to the engine. If zero, 64 KiB is used.
	WriteChunkSize int

	// Logger receives stream and connection lifecycle events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

func (c *Config) enableDatagrams() bool {
	return c != nil && c.EnableDatagrams
}

func (c *Config) readChunkSize() int {
	if c != nil && c.ReadChunkSize > 0 {
		return c.ReadChunkSize
	}
	return defaultReadChunkSize
}

func (c *Config) writeChunkSize() int {
	if c != nil && c.WriteChunkSize > 0 {
		return c.WriteChunkSize
	}
	return defaultWriteChunkSize
}

func (c *Config) logger() *slog.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Clone creates a copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return &Config{
		EnableDatagrams: c.EnableDatagrams,
		ReadChunkSize:   c.ReadChunkSize,
		WriteChunkSize:  c.WriteChunkSize,
		Logger:          c.Logger,
	}
}

// Command quicecho runs an echo server and client over QUIC or WebTransport.
//
//	quicecho serve --addr 127.0.0.1:4433 --metrics-addr 127.0.0.1:9090
//	quicecho dial --addr 127.0.0.1:4433 --insecure --message hello
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "quicecho: %v\n", err)
		os.Exit(1)
	}
}

// c4sniff – Connect Four protocol sniffer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"c4net/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteSniffer(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "c4sniff: %v\n", err)
		os.Exit(1)
	}
}

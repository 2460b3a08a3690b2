// c4server – Connect Four game server.
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

	if err := cmd.ExecuteServer(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "c4server: %v\n", err)
		os.Exit(1)
	}
}

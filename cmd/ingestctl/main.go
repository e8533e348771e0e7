// Command ingestctl is the operator CLI of the delivery ingestion service. It runs
// ingestion once in the foreground and lists stored jobs and deliveries, using
// the same environment configuration as the service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := newSignalContext()
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newSignalContext is cancelled on SIGINT or SIGTERM, which stops a foreground run.
func newSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

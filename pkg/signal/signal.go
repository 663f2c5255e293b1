// Package signal ties command contexts to interrupt signals so an in-flight
// LLM or SMTP call is abandoned cleanly on Ctrl-C.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clog "github.com/xrsl/reachout/pkg/log"
)

// WithInterrupt returns a context that is cancelled on SIGINT or SIGTERM.
// The returned cancel function must be called to release the signal handler.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			clog.Debug("received signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

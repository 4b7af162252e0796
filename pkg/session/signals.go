package session

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// HandleSignals restores the terminal when the process receives one of
// sigs (SIGINT, SIGTERM and SIGHUP by default), running every OnRestore hook
// first, then calls exit with the signal. A nil exit terminates the process
// with status 1. The returned function uninstalls the handler.
func (s *Session) HandleSignals(ctx context.Context, exit func(os.Signal), sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
	}
	if exit == nil {
		exit = func(os.Signal) { os.Exit(1) }
	}

	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			s.logger.Debug("restoring terminal on signal", "signal", sig)
			if err := s.Close(); err != nil {
				s.logger.Warn("restore on signal", "signal", sig, "error", err)
			}
			exit(sig)
		case <-ctx.Done():
		}
	}()

	return cancel
}

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || aix

package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize calls fn with the new terminal size on every SIGWINCH until
// ctx is done. Bubble Tea only watches the size itself when it writes to
// an *os.File directly, which Output is not.
func WatchResize(ctx context.Context, fn func(width, height int)) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)

	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
			}
			fn(Size())
		}
	}()
}

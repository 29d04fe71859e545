//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || aix)

package terminal

import "context"

// WatchResize is a no-op where there is no SIGWINCH.
func WatchResize(ctx context.Context, fn func(width, height int)) {}

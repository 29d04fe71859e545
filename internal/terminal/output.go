package terminal

import (
	"os"
	"sync"
)

// Output is the terminal the program draws on. Writes are serialized so
// escape sequences sent outside the renderer, such as clipboard copies,
// never land in the middle of a frame.
//
// It keeps Read and Fd so termenv still treats it as a terminal.
type Output struct {
	mu sync.Mutex
	f  *os.File
}

// NewOutput wraps f, usually os.Stdout.
func NewOutput(f *os.File) *Output {
	return &Output{f: f}
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.f.Write(p)
}

func (o *Output) Read(p []byte) (int, error) {
	return o.f.Read(p)
}

func (o *Output) Fd() uintptr {
	return o.f.Fd()
}

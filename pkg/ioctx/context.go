// Package ioctx passes a command's standard streams through its context, so
// commands can run against buffers in tests.
package ioctx

import (
	"context"
	"io"
	"os"
	"strings"
)

// Streams are the standard input, output and error of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Stdio returns the process's own streams.
func Stdio() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type streamsKey struct{}

// WithStreams returns a context carrying s.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// FromContext returns the streams carried by ctx. Missing streams read as
// empty and discard writes.
func FromContext(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)
	if s.In == nil {
		s.In = strings.NewReader("")
	}
	if s.Out == nil {
		s.Out = io.Discard
	}
	if s.Err == nil {
		s.Err = io.Discard
	}
	return s
}

// File returns r as an *os.File when it is one, so callers can check for a
// terminal.
func File(r any) (*os.File, bool) {
	f, ok := r.(*os.File)
	return f, ok
}

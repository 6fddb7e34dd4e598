// Package input wraps a byte stream with timed reads and a one-byte
// lookahead, which is what escape-sequence disambiguation needs.
package input

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

const (
	// EOF is returned once the underlying reader is exhausted or fails.
	EOF = -1
	// NoData is returned when a timed read expires without input.
	NoData = -2
)

const pollInterval = time.Millisecond

// Readier is implemented by sources that can report pending input without
// blocking. Sources that are neither a Readier nor a pollable file only
// support blocking reads.
type Readier interface {
	Ready() bool
}

// Reader reads single bytes, optionally with a timeout, and keeps at most one
// byte of lookahead.
type Reader struct {
	mu     sync.Mutex
	in     io.Reader
	ready  func() bool
	peeked int
	err    error
	buf    [1]byte
}

func NewReader(in io.Reader) *Reader {
	r := &Reader{in: in, peeked: NoData}
	switch v := in.(type) {
	case Readier:
		r.ready = v.Ready
	case *os.File:
		r.ready = fileReady(v)
	}
	return r
}

// NonBlockingEnabled reports whether timed reads can actually time out.
func (r *Reader) NonBlockingEnabled() bool {
	return r.ready != nil
}

// Err returns the error that ended the stream, if it was not io.EOF.
func (r *Reader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if errors.Is(r.err, io.EOF) {
		return nil
	}
	return r.err
}

// Read returns the next byte, EOF, or NoData when timeout elapses first. A
// zero timeout blocks.
func (r *Reader) Read(timeout time.Duration) int {
	return r.read(timeout, false)
}

// Peek is Read without consuming the byte. With non-blocking input disabled a
// timed Peek returns NoData immediately.
func (r *Reader) Peek(timeout time.Duration) int {
	return r.read(timeout, true)
}

func (r *Reader) read(timeout time.Duration, isPeek bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.peeked == NoData {
		switch {
		case r.err != nil:
			return EOF
		case timeout <= 0:
			r.peeked = r.readByte()
		case r.ready == nil:
			if isPeek {
				return NoData
			}
			r.peeked = r.readByte()
		default:
			r.peeked = r.readWithin(timeout)
		}
	}

	c := r.peeked
	if !isPeek {
		r.peeked = NoData
	}
	return c
}

func (r *Reader) readWithin(timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if r.ready() {
			return r.readByte()
		}
		time.Sleep(pollInterval)
	}
	return NoData
}

func (r *Reader) readByte() int {
	for {
		n, err := r.in.Read(r.buf[:])
		if n == 1 {
			return int(r.buf[0])
		}
		if err != nil {
			r.err = err
			return EOF
		}
	}
}

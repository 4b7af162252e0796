package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"github.com/vito/ttykit/pkg/input"
	"golang.org/x/sync/errgroup"
)

const readBufferSize = 4096

// Reader is the single consumer handle for a session's input events.
// Events arrive in the order their bytes were read.
type Reader struct {
	session *Session
	events  chan input.Event
	done    chan struct{}

	errMu sync.Mutex
	err   error

	cr       cancelreader.CancelReader
	cancel   context.CancelFunc
	haltOnce sync.Once
}

type chunk struct {
	data []byte
	err  error
}

func startReader(s *Session, in io.Reader) (*Reader, error) {
	cr, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Reader{
		session: s,
		events:  make(chan input.Event),
		done:    make(chan struct{}),
		cr:      cr,
		cancel:  cancel,
	}

	chunks := make(chan chunk)
	resizes := make(chan input.Event)
	dec := input.NewDecoder(input.WithEscapeTimeout(s.escapeTimeout))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.readLoop(gctx, chunks)
	})
	g.Go(func() error {
		return r.decodeLoop(gctx, dec, chunks, resizes)
	})
	s.con.NotifyResize(gctx, func() {
		cols, rows := s.Size()
		select {
		case resizes <- input.ResizeEvent{Cols: cols, Rows: rows}:
		case <-gctx.Done():
		}
	})

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Debug("input reader stopped", "error", err)
		}
		cancel()
		cr.Close() //nolint:errcheck
		close(r.done)
	}()
	return r, nil
}

// readLoop blocks on the cancellable reader and hands chunks to the
// decoder. A read error is forwarded in-band so it is seen after every
// chunk read before it.
func (r *Reader) readLoop(ctx context.Context, chunks chan<- chunk) error {
	defer close(chunks)
	buf := make([]byte, readBufferSize)
	for {
		n, err := r.cr.Read(buf)
		if n > 0 {
			select {
			case chunks <- chunk{data: bytes.Clone(buf[:n])}:
			case <-ctx.Done():
				return nil
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, cancelreader.ErrCanceled) || errors.Is(err, io.EOF) {
			return nil
		}
		err = fmt.Errorf("read input: %w", err)
		select {
		case chunks <- chunk{err: err}:
		case <-ctx.Done():
		}
		return err
	}
}

// decodeLoop owns the decoder. It arms a timer whenever the decoder holds
// an incomplete prefix so a lone ESC is delivered once the escape timeout
// passes.
func (r *Reader) decodeLoop(ctx context.Context, dec *input.Decoder, chunks <-chan chunk, resizes <-chan input.Event) error {
	defer close(r.events)

	var (
		timer  *time.Timer
		expire <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		var events []input.Event
		select {
		case c, ok := <-chunks:
			switch {
			case !ok:
				r.deliver(ctx, dec.Flush())
				return nil
			case c.err != nil:
				r.deliver(ctx, dec.Flush())
				r.setErr(c.err)
				return c.err
			}
			events = dec.Decode(c.data)
		case <-expire:
			events = dec.Expire()
		case ev := <-resizes:
			events = []input.Event{ev}
		case <-ctx.Done():
			return nil
		}

		if !r.deliver(ctx, events) {
			return nil
		}

		if timer != nil {
			timer.Stop()
			expire = nil
		}
		if deadline, ok := dec.Deadline(); ok {
			timer = time.NewTimer(time.Until(deadline))
			expire = timer.C
		}
	}
}

func (r *Reader) deliver(ctx context.Context, events []input.Event) bool {
	for _, ev := range events {
		select {
		case r.events <- ev:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// C returns the event channel. It is closed when the reader stops; Err then
// reports why.
func (r *Reader) C() <-chan input.Event {
	return r.events
}

// Next blocks until an event arrives. It returns io.EOF once the reader has
// stopped cleanly, or the read error that stopped it.
func (r *Reader) Next(ctx context.Context) (input.Event, error) {
	select {
	case ev, ok := <-r.events:
		if !ok {
			if err := r.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Err returns the read error that stopped the reader, if any. It is set
// before C is closed.
func (r *Reader) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

func (r *Reader) setErr(err error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.err = err
}

// Close stops the reader and releases it so the session can issue another.
func (r *Reader) Close() error {
	r.halt()
	r.session.awaitReader(r)
	r.session.releaseReader(r)
	return nil
}

// halt interrupts the pump without waiting for it.
func (r *Reader) halt() {
	r.haltOnce.Do(func() {
		r.cancel()
		r.cr.Cancel()
	})
}

func (r *Reader) wait(timeout time.Duration) bool {
	select {
	case <-r.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Package region keeps a small block of status rows (spinners, progress
// bars, messages) alive at the bottom of normal terminal output.
//
// A Manager owns at most one active Region. The region reserves a fixed
// number of rows below the cursor and redraws them on a tick, writing only
// the rows that changed since the previous frame. Text printed through the
// region appears above it and scrolls away normally.
package region

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/vito/ttykit/pkg/seq"
)

const (
	DefaultTickInterval = 100 * time.Millisecond
	MinTickInterval     = 80 * time.Millisecond
	MaxTickInterval     = 150 * time.Millisecond

	defaultWidth = 80
)

// Manager hands out regions drawn to a single output stream.
type Manager struct {
	out         io.Writer
	tick        time.Duration
	unclamped   bool
	width       func() int
	logger      *slog.Logger
	debugWriter io.Writer

	mu     sync.Mutex
	active *Region
}

// Option configures a Manager.
type Option func(*Manager)

// WithTickInterval sets how often the region redraws. It is clamped to
// [MinTickInterval, MaxTickInterval].
func WithTickInterval(d time.Duration) Option {
	return func(m *Manager) { m.tick = d }
}

// WithUnclampedTick lifts the tick interval bounds.
func WithUnclampedTick() Option {
	return func(m *Manager) { m.unclamped = true }
}

// WithWidth sets how the terminal width is measured before each frame. By
// default it is queried from the output when that is a terminal, else 80.
func WithWidth(fn func() int) Option {
	return func(m *Manager) { m.width = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithDebugWriter logs RenderStats for every flush to w as JSON lines.
func WithDebugWriter(w io.Writer) Option {
	return func(m *Manager) { m.debugWriter = w }
}

// NewManager creates a Manager drawing to out. Nothing else may write to out
// while a region is active, except through Region.Print and Region.Write.
func NewManager(out io.Writer, opts ...Option) *Manager {
	m := &Manager{
		out:    out,
		tick:   DefaultTickInterval,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tick <= 0 {
		m.tick = DefaultTickInterval
	}
	if !m.unclamped {
		m.tick = min(max(m.tick, MinTickInterval), MaxTickInterval)
	}
	if m.width == nil {
		m.width = terminalWidth(out)
	}
	return m
}

func terminalWidth(out io.Writer) func() int {
	f, ok := out.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(f.Fd()) {
		return func() int { return defaultWidth }
	}
	return func() int {
		w, _, err := term.GetSize(f.Fd())
		if err != nil || w <= 0 {
			return defaultWidth
		}
		return w
	}
}

// TickInterval returns the effective redraw interval.
func (m *Manager) TickInterval() time.Duration {
	return m.tick
}

// Active returns the active region, or nil.
func (m *Manager) Active() *Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Activate reserves height rows below the cursor, hides the cursor and
// starts redrawing. It fails with ErrRegionAlreadyActive while another
// region is active, leaving that region alone.
func (m *Manager) Activate(height int) (*Region, error) {
	return m.activate(height, true)
}

func (m *Manager) activate(height int, ticking bool) (*Region, error) {
	if height < 1 {
		return nil, fmt.Errorf("region height must be positive, got %d", height)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return nil, ErrRegionAlreadyActive
	}

	r := &Region{
		m:        m,
		height:   height,
		slots:    make([]*Handle, height),
		prev:     make([]string, height),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	r.prevWidth = r.width()

	var buf bytes.Buffer
	buf.WriteString(seq.HideCursor())
	drawRows(&buf, r.prev)
	if _, err := m.out.Write(buf.Bytes()); err != nil {
		m.out.Write([]byte(seq.ShowCursor())) //nolint:errcheck
		return nil, &WriteError{Err: err}
	}

	m.active = r
	if ticking {
		go r.loop()
	} else {
		close(r.loopDone)
	}
	return r, nil
}

func (m *Manager) release(r *Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == r {
		m.active = nil
	}
}

// Scope activates a region for the duration of fn. The region is
// deactivated however fn exits, panics included, before fn's error is
// returned.
func (m *Manager) Scope(height int, fn func(*Region) error) (err error) {
	r, err := m.Activate(height)
	if err != nil {
		return err
	}
	defer func() {
		if derr := r.Deactivate(); derr != nil {
			err = errors.Join(err, derr)
		}
	}()
	return fn(r)
}

// Region is an active block of rows. All methods are safe for concurrent
// use.
type Region struct {
	m      *Manager
	height int

	// itemMu guards slots, backlog and every Handle's fields.
	itemMu  sync.Mutex
	slots   []*Handle
	backlog []*Handle

	// writeMu serializes everything written to the output.
	writeMu   sync.Mutex
	prev      []string
	prevWidth int
	partial   []byte
	werr      *WriteError
	stopped   bool

	stop     chan struct{}
	loopDone chan struct{}

	deactivateOnce sync.Once
	deactivateErr  error
}

// Handle refers to a submitted item.
type Handle struct {
	r    *Region
	item Item

	slot      int // -1 while queued or removed
	removed   bool
	shownDone bool
}

// Height returns the number of rows the region occupies.
func (r *Region) Height() int {
	return r.height
}

func (r *Region) width() int {
	if w := r.m.width(); w > 0 {
		return w
	}
	return defaultWidth
}

// Submit adds item to the region. It takes the lowest free row slot, or
// waits in a first-in first-out backlog while every slot is taken.
func (r *Region) Submit(item Item) (*Handle, error) {
	if err := r.usable(); err != nil {
		return nil, err
	}

	h := &Handle{r: r, item: item, slot: -1}

	r.itemMu.Lock()
	defer r.itemMu.Unlock()
	if len(r.backlog) == 0 {
		for i, s := range r.slots {
			if s == nil {
				r.slots[i] = h
				h.slot = i
				return h, nil
			}
		}
	}
	r.backlog = append(r.backlog, h)
	return h, nil
}

// Item returns the submitted item.
func (h *Handle) Item() Item {
	return h.item
}

// Update calls fn with the item. Changes show up on the next tick.
func (h *Handle) Update(fn func(Item)) error {
	if err := h.r.usable(); err != nil {
		return err
	}
	fn(h.item)
	return nil
}

// Visible reports whether the item currently holds a row slot.
func (h *Handle) Visible() bool {
	h.r.itemMu.Lock()
	defer h.r.itemMu.Unlock()
	return h.slot >= 0
}

// Remove takes the item out of the region. Its slot goes to the oldest
// backlog item on the next tick.
func (h *Handle) Remove() {
	r := h.r
	r.itemMu.Lock()
	defer r.itemMu.Unlock()
	if h.removed {
		return
	}
	h.removed = true
	if h.slot >= 0 {
		r.slots[h.slot] = nil
		h.slot = -1
		return
	}
	r.backlog = slices.DeleteFunc(r.backlog, func(b *Handle) bool { return b == h })
}

// compose renders the visible items into exactly height rows. Finished
// items are shown for one frame, then their slot is reassigned. Each item
// holding a slot is always drawn.
func (r *Region) compose(width int) (rows []string, visible, backlog int) {
	r.itemMu.Lock()
	for i, h := range r.slots {
		if h != nil && h.shownDone {
			r.slots[i] = nil
			h.slot = -1
		}
	}
	for i := range r.slots {
		if r.slots[i] != nil || len(r.backlog) == 0 {
			continue
		}
		h := r.backlog[0]
		r.backlog = r.backlog[1:]
		r.slots[i] = h
		h.slot = i
	}
	shown := slices.DeleteFunc(slices.Clone(r.slots), func(h *Handle) bool { return h == nil })
	backlog = len(r.backlog)
	r.itemMu.Unlock()

	// Every slot holder gets one row. Rows left over go to multi-row
	// items in slot order, and anything beyond that is clipped.
	spare := r.height - len(shown)
	var finished []*Handle
	rows = make([]string, 0, r.height)
	for _, h := range shown {
		if h.item.Done() {
			finished = append(finished, h)
		}
		lines := clipRows(h.item.Render(width), 1+spare, width)
		spare -= len(lines) - 1
		rows = append(rows, lines...)
	}

	if len(finished) > 0 {
		r.itemMu.Lock()
		for _, h := range finished {
			h.shownDone = true
		}
		r.itemMu.Unlock()
	}

	for i, row := range rows {
		row, _, _ = strings.Cut(row, "\n")
		rows[i] = Fit(row, width)
	}
	for len(rows) < r.height {
		rows = append(rows, "")
	}
	return rows, len(shown), backlog
}

// usable reports why the region can no longer be drawn to, if it can't.
func (r *Region) usable() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.usableLocked()
}

func (r *Region) usableLocked() error {
	if r.werr != nil {
		return errors.Join(ErrRegionTorn, r.werr)
	}
	if r.stopped {
		return ErrDeactivated
	}
	return nil
}

// Err returns the WriteError that tore the region, if any.
func (r *Region) Err() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if r.werr != nil {
		return r.werr
	}
	return nil
}

func (r *Region) loop() {
	defer close(r.loopDone)
	ticker := time.NewTicker(r.m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if err := r.redraw(); err != nil {
				return
			}
		}
	}
}

// Flush redraws the region now instead of waiting for the next tick.
func (r *Region) Flush() error {
	if err := r.usable(); err != nil {
		return err
	}
	return r.redraw()
}

func (r *Region) redraw() error {
	start := time.Now()
	width := r.width()
	rows, visible, backlog := r.compose(width)

	stats := RenderStats{
		ComposeTime: time.Since(start),
		Rows:        r.height,
		Visible:     visible,
		Backlog:     backlog,
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.usableLocked(); err != nil {
		return err
	}
	err := r.flushLocked(rows, width, &stats)
	stats.TotalTime = time.Since(start)
	emitStats(r.m.debugWriter, stats)
	return err
}

// flushLocked writes the rows that differ from the previous frame. The
// cursor rests at the start of the region's first row between frames.
func (r *Region) flushLocked(rows []string, width int, stats *RenderStats) error {
	full := width != r.prevWidth
	stats.FullRedraw = full

	var buf bytes.Buffer
	cur := 0
	for i, row := range rows {
		if !full && row == r.prev[i] {
			continue
		}
		if stats.RowsRepainted == 0 {
			buf.WriteString(seq.BeginSync())
		}
		buf.WriteString(seq.Down(i - cur))
		buf.WriteString("\r" + seq.ClearLine() + row)
		cur = i
		stats.RowsRepainted++
	}
	if stats.RowsRepainted == 0 {
		return nil
	}
	buf.WriteString(seq.Up(cur) + "\r")
	buf.WriteString(seq.EndSync())

	writeStart := time.Now()
	err := r.write(buf.Bytes())
	stats.WriteTime = time.Since(writeStart)
	if err != nil {
		return err
	}
	stats.BytesWritten = buf.Len()
	r.prev = rows
	r.prevWidth = width
	return nil
}

// drawRows paints rows from the cursor's line down, then returns to the
// first row. The line breaks scroll the terminal if the rows reach the
// bottom of the screen.
func drawRows(buf *bytes.Buffer, rows []string) {
	for i, row := range rows {
		if i > 0 {
			buf.WriteString("\r\n")
		}
		buf.WriteString("\r" + seq.ClearLine() + row)
	}
	buf.WriteString(seq.Up(len(rows)-1) + "\r")
}

func (r *Region) write(p []byte) error {
	if _, err := r.m.out.Write(p); err != nil {
		r.werr = &WriteError{Err: err}
		r.m.logger.Error("render region torn", "error", err)
		return r.werr
	}
	return nil
}

// Print writes lines above the region, which is redrawn beneath them.
// Lines may contain newlines.
func (r *Region) Print(lines ...string) error {
	if err := r.usable(); err != nil {
		return err
	}
	start := time.Now()
	width := r.width()
	rows, visible, backlog := r.compose(width)
	stats := RenderStats{ComposeTime: time.Since(start), Visible: visible, Backlog: backlog}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.usableLocked(); err != nil {
		return err
	}
	return r.printLocked(lines, rows, width, start, stats)
}

// printLocked repaints every row, so it records a full redraw. stats
// carries the counts from compose; start is when composing began.
func (r *Region) printLocked(lines []string, rows []string, width int, start time.Time, stats RenderStats) error {
	var buf bytes.Buffer
	buf.WriteString(seq.BeginSync())
	buf.WriteString(seq.ClearRegion(r.height))
	for _, line := range lines {
		for _, l := range strings.Split(line, "\n") {
			buf.WriteString(l + "\r\n")
		}
	}
	drawRows(&buf, rows)
	buf.WriteString(seq.EndSync())

	writeStart := time.Now()
	err := r.write(buf.Bytes())
	stats.WriteTime = time.Since(writeStart)
	stats.Rows = r.height
	stats.FullRedraw = true
	if err == nil {
		stats.RowsRepainted = r.height
		stats.BytesWritten = buf.Len()
		r.prev = rows
		r.prevWidth = width
	}
	stats.TotalTime = time.Since(start)
	emitStats(r.m.debugWriter, stats)
	return err
}

// Write prints complete lines of p above the region, holding back any
// trailing partial line until it is finished or the region is deactivated.
// It lets a Region stand in for the output stream, e.g. for a logger.
func (r *Region) Write(p []byte) (int, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.usableLocked(); err != nil {
		return 0, err
	}

	r.partial = append(r.partial, p...)
	i := bytes.LastIndexByte(r.partial, '\n')
	if i < 0 {
		return len(p), nil
	}
	text := string(r.partial[:i])
	r.partial = slices.Clone(r.partial[i+1:])

	start := time.Now()
	width := r.width()
	rows, visible, backlog := r.compose(width)
	stats := RenderStats{ComposeTime: time.Since(start), Visible: visible, Backlog: backlog}
	if err := r.printLocked([]string{text}, rows, width, start, stats); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Deactivate stops redrawing, writes a final frame, clears the region and
// shows the cursor at the region's first row. Only the first call does
// anything; later calls return its result. The error is the WriteError
// that tore the region, if one did.
func (r *Region) Deactivate() error {
	r.deactivateOnce.Do(func() {
		r.deactivateErr = r.deactivate()
	})
	return r.deactivateErr
}

func (r *Region) deactivate() error {
	close(r.stop)
	<-r.loopDone

	start := time.Now()
	width := r.width()
	rows, visible, backlog := r.compose(width)
	stats := RenderStats{ComposeTime: time.Since(start), Visible: visible, Backlog: backlog}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	defer r.m.release(r)
	r.stopped = true

	if r.werr == nil && len(r.partial) > 0 {
		r.printLocked([]string{string(r.partial)}, rows, width, start, stats) //nolint:errcheck
		r.partial = nil
	}
	if r.werr == nil {
		var stats RenderStats
		r.flushLocked(rows, width, &stats) //nolint:errcheck
	}
	if r.werr == nil {
		r.write([]byte(seq.ClearRegion(r.height) + seq.ShowCursor())) //nolint:errcheck
	} else {
		// Best effort; the stream already failed once.
		r.m.out.Write([]byte(seq.ShowCursor())) //nolint:errcheck
	}

	if r.werr != nil {
		return r.werr
	}
	return nil
}

package region

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Item is something a region can display: a Spinner, ProgressBar or
// Message. Every item is safe to update from any goroutine; updates are
// picked up on the next tick.
type Item interface {
	// Render returns the item's rows for a terminal width cells wide.
	Render(width int) []string
	// Done reports whether the item has finished and may leave its slot.
	Done() bool

	isItem()
}

const maxBarWidth = 40

// ProgressBar renders a label, a bar and a percentage.
type ProgressBar struct {
	// Style wraps the filled part of the bar. May be nil.
	Style func(string) string

	// AutoComplete marks the bar done once it reaches 100%.
	AutoComplete bool

	mu    sync.Mutex
	label string
	frac  float64
	total int
	count int
	done  bool
}

// NewProgressBar creates an empty bar.
func NewProgressBar(label string) *ProgressBar {
	return &ProgressBar{label: label}
}

func (*ProgressBar) isItem() {}

// SetLabel replaces the label.
func (p *ProgressBar) SetLabel(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = label
}

// Set sets the fraction complete, clamped to [0, 1]. NaN counts as 0.
func (p *ProgressBar) Set(f float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frac = clamp(f)
}

// SetTotal sets the count Add works towards.
func (p *ProgressBar) SetTotal(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = n
	p.syncCount()
}

// Add advances the count by n and recomputes the fraction from the total.
// Without a total it does nothing.
func (p *ProgressBar) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += n
	p.syncCount()
}

func (p *ProgressBar) syncCount() {
	if p.total > 0 {
		p.frac = clamp(float64(p.count) / float64(p.total))
	}
}

// Fraction returns the current fraction complete.
func (p *ProgressBar) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frac
}

// Finish marks the bar done regardless of its fraction.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
}

func (p *ProgressBar) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done || (p.AutoComplete && p.frac >= 1)
}

func clamp(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Render draws "label [=====>    ]  50%", giving the bar whatever width
// the label and percentage leave, up to 40 cells.
func (p *ProgressBar) Render(width int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	pct := fmt.Sprintf("%3d%%", int(p.frac*100))
	prefix := ""
	if p.label != "" {
		prefix = p.label + " "
	}

	barWidth := min(width-VisibleWidth(prefix)-len(pct)-3, maxBarWidth)
	if barWidth < 4 {
		return []string{prefix + pct}
	}

	filled := int(p.frac * float64(barWidth))
	fill := strings.Repeat("=", filled)
	if filled > 0 && filled < barWidth {
		fill = fill[:filled-1] + ">"
	}
	if p.Style != nil && fill != "" {
		fill = p.Style(fill)
	}
	bar := "[" + fill + strings.Repeat(" ", barWidth-filled) + "] "
	return []string{prefix + bar + pct}
}

// Message is plain text. Without Wrap it shows only its first line,
// truncated to the terminal width. With Wrap it shows every line,
// soft-wrapped across as many rows as it needs.
type Message struct {
	// Wrap must be set before the message is submitted.
	Wrap bool

	mu   sync.Mutex
	text string
	done bool
}

// NewMessage creates a message showing text.
func NewMessage(text string) *Message {
	return &Message{text: text}
}

func (*Message) isItem() {}

// Set replaces the text.
func (m *Message) Set(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// Append adds text to the end of the message.
func (m *Message) Append(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text += text
}

// Text returns the current text.
func (m *Message) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Finish marks the message done.
func (m *Message) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = true
}

func (m *Message) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *Message) Render(width int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Wrap {
		line, _, _ := strings.Cut(m.text, "\n")
		return []string{line}
	}
	return strings.Split(wrap(m.text, width), "\n")
}

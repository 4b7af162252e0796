package region

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iancoleman/strcase"
)

// Icons is a spinner animation: its frames and how long each is shown.
type Icons struct {
	Frames []string
	Rate   time.Duration
}

func frames(s string) []string {
	return strings.Split(s, "")
}

// braille returns every braille pattern from U+2840 to U+28FF.
func braille() []string {
	var fs []string
	for r := rune(0x2840); r <= 0x28ff; r++ {
		fs = append(fs, string(r))
	}
	return fs
}

// Predefined icon sets.
var (
	Dots          = Icons{frames("⣾⣽⣻⢿⡿⣟⣯⣷"), 150 * time.Millisecond}
	Bounce        = Icons{frames("⠁⠂⠄⡀⢀⠠⠐⠈"), 150 * time.Millisecond}
	Vertical      = Icons{frames("▁▂▃▄▅▆▇█▇▆▅▄▃▁"), 150 * time.Millisecond}
	Horizontal    = Icons{frames("▉▊▋▌▍▎▏▎▍▌▋▊▉"), 150 * time.Millisecond}
	Arrow         = Icons{frames("←↖↑↗→↘↓↙"), 150 * time.Millisecond}
	Box           = Icons{frames("▖▘▝▗"), 250 * time.Millisecond}
	Cross         = Icons{frames("┤┘┴└├┌┬┐"), 150 * time.Millisecond}
	Ellipse       = Icons{[]string{".", "..", "..."}, 650 * time.Millisecond}
	Explode       = Icons{frames(".oO@*"), 250 * time.Millisecond}
	Diamond       = Icons{frames("◇◈◆"), 500 * time.Millisecond}
	Stack         = Icons{braille(), 250 * time.Millisecond}
	Triangle      = Icons{frames("◢◣◤◥"), 250 * time.Millisecond}
	Square        = Icons{frames("◰◳◲◱"), 250 * time.Millisecond}
	QuarterCircle = Icons{frames("◴◷◶◵"), 150 * time.Millisecond}
	HalfCircle    = Icons{frames("◐◓◑◒"), 150 * time.Millisecond}
	Corner        = Icons{frames("◜◝◞◟"), 250 * time.Millisecond}
	Fish          = Icons{[]string{">))'>", " >))'>", "  >))'>", "   >))'>", "    >))'>", "   <'((<", "  <'((<", " <'((<"}, 250 * time.Millisecond}
)

var iconSets = map[string]Icons{
	"dots":          Dots,
	"bounce":        Bounce,
	"vertical":      Vertical,
	"horizontal":    Horizontal,
	"arrow":         Arrow,
	"box":           Box,
	"cross":         Cross,
	"ellipse":       Ellipse,
	"explode":       Explode,
	"diamond":       Diamond,
	"stack":         Stack,
	"triangle":      Triangle,
	"square":        Square,
	"quartercircle": QuarterCircle,
	"halfcircle":    HalfCircle,
	"corner":        Corner,
	"fish":          Fish,
}

// IconsByName looks up a predefined set. Names are matched loosely, so
// "quarter_circle", "QuarterCircle" and "quarter-circle" are the same set.
func IconsByName(name string) (Icons, bool) {
	key := strings.ReplaceAll(strcase.ToSnake(name), "_", "")
	icons, ok := iconSets[key]
	return icons, ok
}

// IconNames lists the predefined sets in sorted order.
func IconNames() []string {
	names := make([]string, 0, len(iconSets))
	for name := range iconSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placement is where a spinner's frame sits relative to its label.
type Placement int

const (
	Prefix Placement = iota
	Suffix
)

// FinishMark is shown in place of the frame once a spinner finishes.
const FinishMark = "✓"

// Spinner is an animated item. The frame is chosen from the time elapsed
// since creation, so it advances even if renders are irregular.
type Spinner struct {
	// Style wraps each frame (e.g. to apply color). May be nil.
	Style func(string) string

	mu        sync.Mutex
	icons     Icons
	placement Placement
	label     string
	total     int
	count     int
	done      bool
	start     time.Time
	now       func() time.Time
}

// SpinnerOption configures a Spinner.
type SpinnerOption func(*Spinner)

// WithIcons selects the animation. The default is Dots.
func WithIcons(icons Icons) SpinnerOption {
	return func(s *Spinner) {
		if len(icons.Frames) > 0 && icons.Rate > 0 {
			s.icons = icons
		}
	}
}

// WithPlacement puts the frame before (Prefix) or after (Suffix) the label.
func WithPlacement(p Placement) SpinnerOption {
	return func(s *Spinner) { s.placement = p }
}

// WithTotal makes the spinner count progress towards n, shown as (count/n).
func WithTotal(n int) SpinnerOption {
	return func(s *Spinner) { s.total = n }
}

// NewSpinner creates a spinner showing label.
func NewSpinner(label string, opts ...SpinnerOption) *Spinner {
	s := &Spinner{
		icons: Dots,
		label: label,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

func (*Spinner) isItem() {}

// SetLabel replaces the label.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

// Add advances the count by n. It has no visible effect without a total.
func (s *Spinner) Add(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count += n
}

// Count returns the progress counted so far.
func (s *Spinner) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Finish stops the animation and shows label beside FinishMark. An empty
// label keeps the current one.
func (s *Spinner) Finish(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if label != "" {
		s.label = label
	}
	s.done = true
}

func (s *Spinner) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Spinner) Render(width int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var frame string
	if s.done {
		frame = FinishMark
	} else {
		idx := int(s.now().Sub(s.start)/s.icons.Rate) % len(s.icons.Frames)
		frame = s.icons.Frames[idx]
	}
	if s.Style != nil {
		frame = s.Style(frame)
	}

	label := s.label
	if s.total > 0 {
		label = fmt.Sprintf("%s (%d/%d)", label, min(s.count, s.total), s.total)
	}

	var line string
	switch {
	case label == "":
		line = frame
	case s.placement == Suffix:
		line = label + " " + frame
	default:
		line = frame + " " + label
	}
	return []string{line}
}

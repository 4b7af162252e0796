package region

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frozen pins a spinner's clock at offset past its start.
func frozen(s *Spinner, offset *time.Duration) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.start = start
	s.now = func() time.Time { return start.Add(*offset) }
}

func TestSpinnerFrames(t *testing.T) {
	var elapsed time.Duration
	s := NewSpinner("loading")
	frozen(s, &elapsed)

	assert.Equal(t, []string{"⣾ loading"}, s.Render(80))

	elapsed = 150 * time.Millisecond
	assert.Equal(t, []string{"⣽ loading"}, s.Render(80))

	elapsed = 8 * 150 * time.Millisecond
	assert.Equal(t, []string{"⣾ loading"}, s.Render(80), "frames wrap around")
}

func TestSpinnerSuffixAndTotal(t *testing.T) {
	var elapsed time.Duration
	s := NewSpinner("fetching", WithIcons(Ellipse), WithPlacement(Suffix), WithTotal(5))
	frozen(s, &elapsed)

	s.Add(2)
	assert.Equal(t, []string{"fetching (2/5) ."}, s.Render(80))

	elapsed = 650 * time.Millisecond
	s.Add(10)
	assert.Equal(t, []string{"fetching (5/5) .."}, s.Render(80))
	assert.Equal(t, 12, s.Count())
}

func TestSpinnerFinish(t *testing.T) {
	s := NewSpinner("building")
	s.Style = func(f string) string { return "<" + f + ">" }
	assert.False(t, s.Done())

	s.Finish("")
	assert.True(t, s.Done())
	assert.Equal(t, []string{"<" + FinishMark + "> building"}, s.Render(80))

	s.SetLabel("built")
	assert.Equal(t, []string{"<" + FinishMark + "> built"}, s.Render(80))
}

func TestIconsByName(t *testing.T) {
	for _, name := range []string{"quarter_circle", "QuarterCircle", "quarter-circle", "QUARTER_CIRCLE"} {
		icons, ok := IconsByName(name)
		require.True(t, ok, name)
		assert.Equal(t, QuarterCircle, icons, name)
	}

	_, ok := IconsByName("sparkles")
	assert.False(t, ok)

	assert.Len(t, IconNames(), 17)
	assert.Len(t, Stack.Frames, 192)
	assert.Equal(t, "⡀", Stack.Frames[0])
	assert.Equal(t, "⣿", Stack.Frames[191])
}

func TestWithIconsIgnoresEmptySet(t *testing.T) {
	s := NewSpinner("x", WithIcons(Icons{}))
	assert.Equal(t, Dots, s.icons)
}

func TestProgressBarClamps(t *testing.T) {
	p := NewProgressBar("dl")

	p.Set(2)
	assert.Equal(t, 1.0, p.Fraction())
	p.Set(-1)
	assert.Equal(t, 0.0, p.Fraction())
	p.Set(math.NaN())
	assert.Equal(t, 0.0, p.Fraction())
	p.Set(0.25)
	assert.Equal(t, 0.25, p.Fraction())
}

func TestProgressBarRender(t *testing.T) {
	p := NewProgressBar("dl")
	p.Set(0.5)
	assert.Equal(t, []string{"dl [====>     ]  50%"}, p.Render(20))

	p.Set(1)
	assert.Equal(t, []string{"dl [==========] 100%"}, p.Render(20))

	p.Set(0)
	assert.Equal(t, []string{"dl [          ]   0%"}, p.Render(20))

	p.Set(1)
	assert.Equal(t, []string{"dl 100%"}, p.Render(8), "too narrow for a bar")
}

func TestProgressBarCounts(t *testing.T) {
	p := NewProgressBar("files")
	p.Add(1)
	assert.Zero(t, p.Fraction(), "no total yet")

	p.SetTotal(4)
	assert.Equal(t, 0.25, p.Fraction())

	p.Add(10)
	assert.Equal(t, 1.0, p.Fraction())
	assert.False(t, p.Done())

	p.AutoComplete = true
	assert.True(t, p.Done())
}

func TestProgressBarFinish(t *testing.T) {
	p := NewProgressBar("")
	p.Finish()
	assert.True(t, p.Done())
	assert.Equal(t, []string{"[          ]   0%"}, p.Render(17))
}

func TestMessage(t *testing.T) {
	m := NewMessage("first\nsecond")
	assert.Equal(t, []string{"first"}, m.Render(80))

	m.Set("hello")
	m.Append(", world")
	assert.Equal(t, "hello, world", m.Text())
	assert.Equal(t, []string{"hello, world"}, m.Render(80))

	assert.False(t, m.Done())
	m.Finish()
	assert.True(t, m.Done())
}

func TestWrappedMessage(t *testing.T) {
	m := NewMessage("one two three\nfour")
	m.Wrap = true

	assert.Equal(t, []string{"one two", "three", "four"}, m.Render(8))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "short", Fit("short", 10))
	assert.Equal(t, "exactly10!", Fit("exactly10!", 10))
	assert.Equal(t, "toolo…", Fit("toolong text", 6))
	assert.Equal(t, "", Fit("anything", 0))
	assert.Equal(t, "\x1b[1mbo…\x1b[0m", Fit("\x1b[1mbold text\x1b[0m", 3))
}

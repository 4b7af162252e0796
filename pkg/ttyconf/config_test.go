package ttyconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/ttykit/pkg/input"
	"github.com/vito/ttykit/pkg/region"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(`
escape_timeout = "25ms"
tick_interval = "120ms"
height = 6
spinner = "half_circle"
quit = "ctrl+q"
mouse = true
`)
	require.NoError(t, err)

	assert.Equal(t, 25*time.Millisecond, cfg.EscapeTimeout)
	assert.Equal(t, 120*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 6, cfg.Height)
	assert.Equal(t, region.HalfCircle, cfg.SpinnerIcons())
	assert.Equal(t, input.KeyEvent{Code: input.KeyRune, Rune: 'q', Mod: input.ModCtrl}, cfg.Quit)
	assert.True(t, cfg.Mouse)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, region.Dots, cfg.SpinnerIcons())
}

func TestParseErrorsNameTheKey(t *testing.T) {
	for _, tc := range []struct {
		doc string
		key string
	}{
		{`escape_timeout = "soon"`, "escape_timeout"},
		{`tick_interval = "-5ms"`, "tick_interval"},
		{`height = 0`, "height"},
		{`spinner = "sparkles"`, "spinner"},
		{`quit = "hyper+q"`, "quit"},
	} {
		_, err := Parse(tc.doc)
		require.Error(t, err, tc.doc)
		assert.Contains(t, err.Error(), tc.key+":", tc.doc)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Find(nested)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path, "stops at the .git boundary")
	assert.Equal(t, 4, cfg.Height)

	path := filepath.Join(root, "a", FileName)
	require.NoError(t, os.WriteFile(path, []byte("height = 2\n"), 0o644))

	cfg, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 2, cfg.Height)
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`height = "tall"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

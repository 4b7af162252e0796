package ioctx

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextDefaults(t *testing.T) {
	s := FromContext(context.Background())
	assert.Equal(t, io.Discard, s.Out)
	assert.Equal(t, io.Discard, s.Err)

	data, err := io.ReadAll(s.In)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWithStreams(t *testing.T) {
	var out bytes.Buffer
	ctx := WithStreams(context.Background(), Streams{Out: &out})

	s := FromContext(ctx)
	_, err := io.WriteString(s.Out, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", out.String())
	assert.Equal(t, io.Discard, s.Err, "unset streams still default")
}

func TestFile(t *testing.T) {
	f, ok := File(os.Stdin)
	assert.True(t, ok)
	assert.Same(t, os.Stdin, f)

	_, ok = File(&bytes.Buffer{})
	assert.False(t, ok)
}

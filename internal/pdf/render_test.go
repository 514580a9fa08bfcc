package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesPDF(t *testing.T) {
	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			out, err := newTestComposer(t, name).Generate(sampleInvoice(), fixedNow)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
			assert.True(t, bytes.Contains(out, []byte("%%EOF")))
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	c := newTestComposer(t, "blue")

	first, err := c.Generate(sampleInvoice(), fixedNow)
	require.NoError(t, err)
	second, err := c.Generate(sampleInvoice(), fixedNow)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))

	later, err := c.Generate(sampleInvoice(), fixedNow.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, bytes.Equal(first, later))
}

func TestRenderEmptyLayout(t *testing.T) {
	_, err := newTestComposer(t, "").Render(&Layout{})
	assert.Error(t, err)
}

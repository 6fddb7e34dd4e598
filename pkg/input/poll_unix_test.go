//go:build unix

package input

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Pipe(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()

	r := NewReader(pr)
	require.True(t, r.NonBlockingEnabled())
	assert.Equal(t, NoData, r.Peek(5*time.Millisecond))

	_, err = pw.Write([]byte{0x1b})
	require.NoError(t, err)
	assert.Equal(t, 0x1b, r.Read(time.Second))

	require.NoError(t, pw.Close())
	assert.Equal(t, EOF, r.Read(0))
}

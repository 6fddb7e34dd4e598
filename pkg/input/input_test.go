package input

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource hands out its bytes one chunk at a time and reports
// readiness only while bytes remain.
type scriptedSource struct {
	data []byte
	err  error
}

func (s *scriptedSource) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *scriptedSource) Ready() bool {
	return len(s.data) > 0
}

func TestReader_BlockingRead(t *testing.T) {
	r := NewReader(strings.NewReader("ab"))
	assert.False(t, r.NonBlockingEnabled())

	assert.Equal(t, int('a'), r.Read(0))
	assert.Equal(t, int('b'), r.Read(0))
	assert.Equal(t, EOF, r.Read(0))
	assert.Equal(t, EOF, r.Read(0))
	assert.NoError(t, r.Err())
}

func TestReader_PeekDoesNotConsume(t *testing.T) {
	r := NewReader(&scriptedSource{data: []byte("xy")})
	require.True(t, r.NonBlockingEnabled())

	assert.Equal(t, int('x'), r.Peek(10*time.Millisecond))
	assert.Equal(t, int('x'), r.Peek(0))
	assert.Equal(t, int('x'), r.Read(0))
	assert.Equal(t, int('y'), r.Read(10*time.Millisecond))
}

func TestReader_TimeoutReturnsNoData(t *testing.T) {
	r := NewReader(&scriptedSource{})

	start := time.Now()
	assert.Equal(t, NoData, r.Peek(20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, NoData, r.Read(5*time.Millisecond))
	assert.Equal(t, EOF, r.Read(0))
}

func TestReader_TimedPeekWithoutNonBlocking(t *testing.T) {
	r := NewReader(strings.NewReader("z"))
	assert.Equal(t, NoData, r.Peek(time.Second))
	assert.Equal(t, int('z'), r.Read(time.Second))
}

func TestReader_ErrorIsEOF(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(&scriptedSource{data: []byte("q"), err: boom})

	assert.Equal(t, int('q'), r.Read(0))
	assert.Equal(t, EOF, r.Read(0))
	assert.ErrorIs(t, r.Err(), boom)
}

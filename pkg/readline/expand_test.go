package readline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEvents(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader(""))
	for _, line := range []string{"ls -l", "cd /tmp", "echo hello world"} {
		r.History().Add(line)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"!!", "echo hello world"},
		{"sudo !!", "sudo echo hello world"},
		{"!0", "ls -l"},
		{"!1 && !2", "cd /tmp && echo hello world"},
		{"!-1", "echo hello world"},
		{"!-3", "ls -l"},
		{"!cd", "cd /tmp"},
		{"!ec x", "echo hello world x"},
		{"!?hello?", "echo hello world"},
		{"!?tmp", "cd /tmp"},
		{"vi !$", "vi world"},
		{"a !#", "a a "},
		{"x != y", "x != y"},
		{"!(a)", "!(a)"},
		{"trailing!", "trailing!"},
		{`\!!`, "!!"},
		{`a\b`, `a\b`},
		{"^hello^bye", "echo bye world"},
		{"^hello^bye^ now", "echo bye world now"},
		{"^^x", "^^x"},
		{`\^a^b`, "^a^b"},
		{"a^b^c", "a^b^c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.expandEvents(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandEvents_NotFound(t *testing.T) {
	r, _ := newTestReader(t, strings.NewReader(""))

	_, err := r.expandEvents("!!")
	var notFound *EventNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "!!", notFound.Designator)

	r.History().Add("make test")

	for input, designator := range map[string]string{
		"!5":     "!5",
		"!-0":    "!-0",
		"!-2":    "!-2",
		"!nope":  "!nope",
		"!?zzz?": "!?zzz",
	} {
		_, err := r.expandEvents(input)
		require.ErrorAs(t, err, &notFound, input)
		assert.Equal(t, designator, notFound.Designator, input)
		assert.EqualError(t, err, designator+": event not found")
	}
}

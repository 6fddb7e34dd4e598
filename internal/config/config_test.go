package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, 100*time.Millisecond, s.EscapeTimeout())
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editing_mode: vi\nbell: false\ncompletion_words:\n  - /usr/share/words\n"), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vi", s.EditingMode)
	assert.False(t, s.Bell)
	assert.Equal(t, []string{"/usr/share/words"}, s.CompletionWords)
	assert.Equal(t, 500, s.HistorySize, "unset keys keep their defaults")
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bell: [\n"), 0600))
	_, err := Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "mode.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editing_mode: ed\n"), 0600))
	s, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, "emacs", s.EditingMode)
}

func TestSettings_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"editing_mode", "VI", "vi", false},
		{"editing_mode", "ed", "", true},
		{"bell", "off", "false", false},
		{"bell", "maybe", "", true},
		{"pagination", "on", "true", false},
		{"history_size", "42", "42", false},
		{"history_size", "-1", "", true},
		{"escape_timeout_ms", "soon", "", true},
		{"log_level", "debug", "debug", false},
		{"log_level", "loud", "", true},
		{"completion_words", "a, b,,c", "a,b,c", false},
		{"colour", "red", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := Default()
			err := s.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := s.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettings_UnknownKey(t *testing.T) {
	s := Default()
	assert.ErrorIs(t, s.Set("colour", "red"), ErrUnknownSetting)
	_, err := s.Get("colour")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestSettings_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"BISHLINE_EDITING_MODE":      "vi",
		"BISHLINE_ESCAPE_TIMEOUT_MS": "250",
		"BISHLINE_BELL":              "nope",
		"EDITING_MODE":               "emacs",
	}
	s := Default()
	err := s.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	assert.ErrorContains(t, err, "bell")
	assert.Equal(t, "vi", s.EditingMode)
	assert.Equal(t, 250*time.Millisecond, s.EscapeTimeout())
	assert.True(t, s.Bell, "invalid values leave the setting alone")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := Default()
	require.NoError(t, s.Set("editing_mode", "vi"))
	require.NoError(t, s.Set("completion_words", "/a,/b"))
	require.NoError(t, Save(path, s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temp files are left behind")
}

func TestSave_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s := Default()
			s.HistorySize = n
			assert.NoError(t, Save(path, s))
		}(i)
	}
	wg.Wait()

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, loaded.HistorySize, 0)
	assert.Less(t, loaded.HistorySize, 8)
}

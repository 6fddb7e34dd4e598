package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useDataDir points the default paths at dir for the rest of the test.
func useDataDir(t *testing.T, dir string) {
	t.Helper()
	old := defaultPaths
	t.Cleanup(func() { defaultPaths = old })
	defaultPaths = &Paths{DataDir: dir}
}

func listLogFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isLogFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names
}

func TestNewPaths(t *testing.T) {
	p := newPaths("/home/u", "", "")
	assert.Equal(t, "/home/u/.local/share/bishline", p.DataDir)
	assert.Equal(t, "/home/u/.local/share/bishline/bishline.zst", p.LogFile)
	assert.Equal(t, "/home/u/.local/share/bishline/history.db", p.HistoryFile)
	assert.Equal(t, "/home/u/.config/bishline/config.yaml", p.ConfigFile)
	assert.Equal(t, "/home/u/.inputrc", p.InputrcFile)

	p = newPaths("/home/u", "/xdg", "/etc/inputrc")
	assert.Equal(t, "/xdg/bishline/config.yaml", p.ConfigFile)
	assert.Equal(t, "/etc/inputrc", p.InputrcFile)
}

func TestCleanLogFiles(t *testing.T) {
	t.Run("Removes all bishline.*.zst files", func(t *testing.T) {
		tmpDir := t.TempDir()
		useDataDir(t, tmpDir)

		for _, name := range []string{"bishline.1234.zst", "bishline.5678.zst", "bishline.zst", "other.log"} {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("log"), 0644))
		}

		require.NoError(t, CleanLogFiles())

		assert.Empty(t, listLogFiles(t, tmpDir))
		_, err := os.Stat(filepath.Join(tmpDir, "other.log"))
		assert.NoError(t, err, "Other file should not be removed")
	})

	t.Run("Handles empty directory", func(t *testing.T) {
		useDataDir(t, t.TempDir())
		assert.NoError(t, CleanLogFiles())
	})
}

func TestRotateLogFiles(t *testing.T) {
	t.Run("Keeps most recent 10 log files", func(t *testing.T) {
		tmpDir := t.TempDir()
		useDataDir(t, tmpDir)

		// newest = lowest number
		now := time.Now()
		for i := 1; i <= 15; i++ {
			logFile := filepath.Join(tmpDir, fmt.Sprintf("bishline.%d.zst", i))
			modTime := now.Add(-time.Duration(i) * time.Minute)
			require.NoError(t, os.WriteFile(logFile, []byte("log"), 0644))
			require.NoError(t, os.Chtimes(logFile, modTime, modTime))
		}

		require.NoError(t, RotateLogFiles())

		logFiles := listLogFiles(t, tmpDir)
		assert.Len(t, logFiles, 10)
		for i := 1; i <= 10; i++ {
			assert.Contains(t, logFiles, fmt.Sprintf("bishline.%d.zst", i), "Newest files should remain")
		}
	})

	t.Run("Keeps all files when <= 10", func(t *testing.T) {
		tmpDir := t.TempDir()
		useDataDir(t, tmpDir)

		for i := 1; i <= 5; i++ {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, fmt.Sprintf("bishline.%d.zst", i)), []byte("log"), 0644))
		}

		require.NoError(t, RotateLogFiles())
		assert.Len(t, listLogFiles(t, tmpDir), 5)
	})

	t.Run("Preserves other files", func(t *testing.T) {
		tmpDir := t.TempDir()
		useDataDir(t, tmpDir)

		for i := 1; i <= 12; i++ {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, fmt.Sprintf("bishline.%d.zst", i)), []byte("log"), 0644))
		}
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "other.log"), []byte("other"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "bishline.dir.zst"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "history.db"), []byte("db"), 0644))

		require.NoError(t, RotateLogFiles())

		entries, err := os.ReadDir(tmpDir)
		require.NoError(t, err)
		var others []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zst") {
				others = append(others, entry.Name())
			}
		}
		assert.Len(t, listLogFiles(t, tmpDir), 10)
		assert.Len(t, others, 3, "Should preserve everything that is not a log file")
	})

	t.Run("Handles empty directory", func(t *testing.T) {
		useDataDir(t, t.TempDir())
		assert.NoError(t, RotateLogFiles())
	})
}

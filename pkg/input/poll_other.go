//go:build !unix

package input

import "os"

// fileReady has no portable implementation here; timed reads on plain files
// fall back to blocking.
func fileReady(*os.File) func() bool {
	return nil
}

//go:build unix

package input

import (
	"os"

	"golang.org/x/sys/unix"
)

// fileReady polls f's descriptor with a zero timeout.
func fileReady(f *os.File) func() bool {
	fd := int(f.Fd())
	return func() bool {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			n, err := unix.Poll(fds, 0)
			if err == unix.EINTR {
				continue
			}
			return err == nil && n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0
		}
	}
}

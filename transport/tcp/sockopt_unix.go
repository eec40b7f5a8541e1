//go:build unix

package tcp

import (
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func reuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return errors.Wrap(err, "accessing socket")
	}
	return errors.Wrap(sockErr, "setting SO_REUSEADDR")
}

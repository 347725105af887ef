//go:build linux

package cec

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// realtimePriority is the SCHED_FIFO priority requested by Serve.
const realtimePriority = 50

func setRealtimePriority() error {
	attr := unix.SchedAttr{
		Size:     uint32(unsafe.Sizeof(unix.SchedAttr{})),
		Policy:   unix.SCHED_FIFO,
		Priority: realtimePriority,
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		return fmt.Errorf("sched_setattr: %w", err)
	}
	return nil
}

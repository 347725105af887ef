//go:build !linux

package cec

import "errors"

func setRealtimePriority() error {
	return errors.New("real-time scheduling not supported on this platform")
}

//go:build linux

package threadaffinity

import "golang.org/x/sys/unix"

func currentThreadID() (int, bool) {
	return unix.Gettid(), true
}

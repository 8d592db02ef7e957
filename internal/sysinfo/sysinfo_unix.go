//go:build unix

package sysinfo

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

func stackLimit() (int64, bool) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_STACK, &rlimit); err != nil {
		return defaultStackLimit, false
	}
	return int64(rlimit.Cur), true
}

// platform reports uname's version and release fields, e.g. "#1 SMP....5.15.0-generic".
// Empty if uname fails, in which case Platform falls back to GOOS.
func platform() string {
	var uname unix.Utsname
	if unix.Uname(&uname) != nil {
		return ""
	}
	v, r := uname.Version[:], uname.Release[:]
	return fmt.Sprintf("%s.%s", bytes.Trim(v, "\x00"), bytes.Trim(r, "\x00"))
}

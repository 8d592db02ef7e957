//go:build windows

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// Windows has no rlimit equivalent exposed through x/sys/windows; the
// thread's stack reservation is fixed at creation time and isn't queryable
// the way POSIX's RLIMIT_STACK is.
func stackLimit() (int64, bool) {
	return defaultStackLimit, false
}

// platform reads the registry's CurrentVersion string, falling back to
// GetVersion (and then to GOOS, via Platform) if the registry key can't be
// opened or read.
func platform() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return platformFromGetVersion()
	}
	defer k.Close()
	v, _, err := k.GetStringValue("CurrentVersion")
	if err != nil {
		return platformFromGetVersion()
	}
	return v
}

func platformFromGetVersion() string {
	v, err := windows.GetVersion()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", v&0xff, v>>8&0xff)
}

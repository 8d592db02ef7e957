//go:build !unix && !windows

package sysinfo

// No version probe exists for this platform family; Platform falls back to
// GOOS.
func platform() string {
	return ""
}

func stackLimit() (int64, bool) {
	return defaultStackLimit, false
}

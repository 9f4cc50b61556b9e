//go:build windows

package platform

import "golang.org/x/sys/windows"

// IsElevated reports whether the process token is elevated
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

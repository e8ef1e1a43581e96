//go:build windows

package session

import "golang.org/x/sys/windows"

// Windows has no su equivalent that accepts a secret on stdin, so the installer
// must already run elevated there.
const (
	defaultShell         = "cmd.exe"
	defaultElevationTool = ""
)

func isPrivileged() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

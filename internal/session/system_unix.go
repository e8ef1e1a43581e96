//go:build unix

package session

import "golang.org/x/sys/unix"

const (
	defaultShell         = "sh"
	defaultElevationTool = "su"
)

func isPrivileged() bool {
	return unix.Geteuid() == 0
}

package session

// System reports the privileges of the current process.
// This interface is package-local so tests can exercise both elevation modes.
type System interface {
	IsPrivileged() bool
}

// RealSystem implements System for the running process.
type RealSystem struct{}

// IsPrivileged reports whether the process already has administrative rights.
func (RealSystem) IsPrivileged() bool {
	return isPrivileged()
}

// Privileged is a System with a fixed answer.
type Privileged bool

// IsPrivileged returns the fixed answer.
func (p Privileged) IsPrivileged() bool {
	return bool(p)
}

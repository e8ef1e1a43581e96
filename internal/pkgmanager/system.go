package pkgmanager

import "os/exec"

// System abstracts the executable lookup used to probe for managers.
// This interface is package-local so tests can simulate a PATH without touching the environment.
type System interface {
	LookPath(file string) (string, error)
}

// RealSystem implements System using the process PATH.
type RealSystem struct{}

// LookPath searches PATH for an executable named file.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// PathSet is a System backed by a fixed set of executable names.
type PathSet map[string]string

// LookPath returns the recorded path for file or exec.ErrNotFound.
func (p PathSet) LookPath(file string) (string, error) {
	if path, ok := p[file]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

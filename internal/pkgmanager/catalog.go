// Package pkgmanager describes the package managers the installer can drive and renders
// the shell command lines used to install or remove packages with them.
package pkgmanager

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/limit-lab/limit-up/internal/failure"
)

// Kind identifies one supported package manager.
type Kind int

const (
	Apt Kind = iota
	Dnf
	Pacman
	Zypper
	Apk
	Pkg
)

// String returns the binary name of the manager.
func (k Kind) String() string {
	switch k {
	case Apt:
		return "apt-get"
	case Dnf:
		return "dnf"
	case Pacman:
		return "pacman"
	case Zypper:
		return "zypper"
	case Apk:
		return "apk"
	case Pkg:
		return "pkg"
	default:
		return "unknown"
	}
}

// Descriptor holds the command templates for one package manager.
// Descriptors are values; the table they come from is never mutated.
type Descriptor struct {
	Kind Kind
	// Name is the binary probed on PATH and the first token of every rendered command.
	Name      string
	Install   string
	Uninstall string
	// Update refreshes the package index. It is only rendered when RefreshIndex is set.
	Update string
	// Flags makes the manager non-interactive.
	Flags        string
	RefreshIndex bool
}

// descriptorFor maps a Kind to its templates.
func descriptorFor(kind Kind) Descriptor {
	switch kind {
	case Apt:
		return Descriptor{Kind: Apt, Name: "apt-get", Install: "install", Uninstall: "remove", Update: "update", Flags: "-y", RefreshIndex: true}
	case Dnf:
		return Descriptor{Kind: Dnf, Name: "dnf", Install: "install", Uninstall: "remove", Update: "makecache", Flags: "-y", RefreshIndex: true}
	case Pacman:
		return Descriptor{Kind: Pacman, Name: "pacman", Install: "-S", Uninstall: "-Rns", Update: "-Sy", Flags: "--noconfirm", RefreshIndex: true}
	case Zypper:
		// zypper refreshes repositories on install.
		return Descriptor{Kind: Zypper, Name: "zypper", Install: "install", Uninstall: "remove", Flags: "-y"}
	case Apk:
		return Descriptor{Kind: Apk, Name: "apk", Install: "add", Uninstall: "del", Update: "update", Flags: "--no-interactive", RefreshIndex: true}
	case Pkg:
		return Descriptor{Kind: Pkg, Name: "pkg", Install: "install", Uninstall: "delete", Update: "update", Flags: "-y", RefreshIndex: true}
	default:
		panic(fmt.Sprintf("pkgmanager: unknown kind %d", int(kind)))
	}
}

// InstallCommand renders the command that installs pkgs and then exits the shell.
func (d Descriptor) InstallCommand(pkgs []string) string {
	install := d.verb(d.Install, pkgs)
	if !d.RefreshIndex {
		return install + " && exit"
	}
	return joinFields(d.Name, d.Update, d.Flags) + " && " + install + " && exit"
}

// UninstallCommand renders the command that removes pkgs and then exits the shell.
func (d Descriptor) UninstallCommand(pkgs []string) string {
	return d.verb(d.Uninstall, pkgs) + " && exit"
}

func (d Descriptor) verb(verb string, pkgs []string) string {
	return joinFields(d.Name, verb, d.Flags, strings.Join(pkgs, " "))
}

// joinFields joins non-empty fields with single spaces.
func joinFields(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, " ")
}

// Catalog is the ordered list of known package managers.
type Catalog struct {
	descriptors []Descriptor
}

// DefaultCatalog returns the catalog in probe priority order.
func DefaultCatalog() Catalog {
	return NewCatalog(Apt, Dnf, Pacman, Zypper, Apk, Pkg)
}

// NewCatalog builds a catalog that probes kinds in the given order.
func NewCatalog(kinds ...Kind) Catalog {
	descriptors := make([]Descriptor, 0, len(kinds))
	for _, kind := range kinds {
		descriptors = append(descriptors, descriptorFor(kind))
	}
	return Catalog{descriptors: descriptors}
}

// Descriptors returns a copy of the catalog entries in priority order.
func (c Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Lookup returns the descriptor whose binary name matches name.
func (c Catalog) Lookup(name string) (Descriptor, bool) {
	name = strings.TrimSpace(name)
	for _, d := range c.descriptors {
		if d.Name == name || d.Kind.String() == name {
			return d, true
		}
	}
	// "apt" is the name users type.
	if name == "apt" {
		return c.Lookup(Apt.String())
	}
	return Descriptor{}, false
}

// maxSuggestDistance bounds how far a typo may be from a known name and still be suggested.
const maxSuggestDistance = 2

// Suggest returns the known manager name closest to name, or "" when none is close enough.
func (c Catalog) Suggest(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, d := range c.descriptors {
		if dist := levenshtein.ComputeDistance(name, d.Name); dist < bestDist {
			best, bestDist = d.Name, dist
		}
	}
	return best
}

// Select returns the first manager whose binary is found by sys.
func (c Catalog) Select(sys System) (Descriptor, error) {
	for _, d := range c.descriptors {
		if _, err := sys.LookPath(d.Name); err == nil {
			return d, nil
		}
	}
	return Descriptor{}, failure.ErrNotSupported
}

// packageNamePattern admits the package names of every supported manager while keeping
// shell metacharacters out of rendered commands.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9+._:@/=~-]*$`)

// ValidPackageName reports whether name can be rendered into a command line unquoted.
func ValidPackageName(name string) bool {
	return packageNamePattern.MatchString(name)
}

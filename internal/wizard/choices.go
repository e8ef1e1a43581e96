package wizard

import (
	"slices"
	"strings"

	"github.com/limit-lab/limit-up/internal/config"
)

// Choices tracks user selections in the wizard. Secret is held only in memory.
type Choices struct {
	AutoInstall  bool
	Root         string
	Dependencies []string
	Extra        string
	Secret       string
}

// Clone returns a copy used to roll back a step on back navigation.
func (c *Choices) Clone() *Choices {
	out := *c
	out.Dependencies = slices.Clone(c.Dependencies)
	return &out
}

// choicesFromConfig seeds the wizard from cfg. Dependencies that are not in the
// field catalog go to the free-text extra packages.
func choicesFromConfig(cfg *config.Config) *Choices {
	known := config.FieldOptionValues("install.dependencies")
	c := &Choices{AutoInstall: true, Root: cfg.Install.Root}
	var extra []string
	for _, dep := range cfg.Install.Dependencies {
		if slices.Contains(known, dep) {
			c.Dependencies = append(c.Dependencies, dep)
		} else {
			extra = append(extra, dep)
		}
	}
	c.Extra = strings.Join(extra, " ")
	return c
}

// packages returns the selected and extra packages in order without duplicates.
func (c *Choices) packages() []string {
	var out []string
	for _, dep := range append(slices.Clone(c.Dependencies), strings.Fields(c.Extra)...) {
		if !slices.Contains(out, dep) {
			out = append(out, dep)
		}
	}
	return out
}

// apply returns a copy of cfg carrying the wizard's choices.
func (c *Choices) apply(cfg *config.Config) *config.Config {
	next := *cfg
	next.Install.Root = strings.TrimSpace(c.Root)
	next.Install.Dependencies = c.packages()
	return &next
}

package config

import "github.com/limit-lab/limit-up/internal/messages"

// FieldType classifies the values a config field accepts.
type FieldType string

const (
	// FieldEnum accepts exactly one of Options.
	FieldEnum FieldType = "enum"
	// FieldList accepts any subset of Options plus custom values.
	FieldList FieldType = "list"
)

// FieldOption is one known value of a field. Description may be empty.
type FieldOption struct {
	Value       string
	Description string
}

// FieldDef lists the known values of a config key.
type FieldDef struct {
	Key     string
	Type    FieldType
	Options []FieldOption
}

var fields = map[string]FieldDef{
	"install.dependencies": {
		Key:  "install.dependencies",
		Type: FieldList,
		Options: []FieldOption{
			{Value: "git", Description: messages.SetupDepGitDescription},
			{Value: "curl", Description: messages.SetupDepCurlDescription},
			{Value: "elixir", Description: messages.SetupDepElixirDescription},
			{Value: "build-essential", Description: messages.SetupDepBuildDescription},
		},
	},
	"log.level": {
		Key:     "log.level",
		Type:    FieldEnum,
		Options: []FieldOption{{Value: "debug"}, {Value: "info"}, {Value: "warn"}, {Value: "error"}},
	},
}

// LookupField returns a copy of the definition for key.
func LookupField(key string) (FieldDef, bool) {
	f, ok := fields[key]
	if !ok {
		return FieldDef{}, false
	}
	f.Options = append([]FieldOption(nil), f.Options...)
	return f, true
}

// FieldOptionValues returns the option values of key in order, or nil for unknown keys.
func FieldOptionValues(key string) []string {
	f, ok := fields[key]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		values = append(values, opt.Value)
	}
	return values
}

package doctor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindUnknownKeysInArraysOfTables(t *testing.T) {
	type mirror struct {
		URL string `toml:"url"`
	}
	type root struct {
		Mirrors []mirror          `toml:"mirrors"`
		Extra   map[string]string `toml:"extra"`
	}

	schema := buildSchema(reflect.TypeOf(root{}))
	raw := map[string]any{
		"mirrors": []any{
			map[string]any{"url": "https://a"},
			map[string]any{"url": "https://b", "ulr": "typo"},
		},
		"extra": map[string]any{"anything": "goes"},
	}

	var keys []unknownKey
	findUnknownKeys(raw, schema, "", &keys)

	require.Len(t, keys, 1)
	assert.Equal(t, "mirrors[1].ulr", keys[0].Path)
	assert.Equal(t, []string{"url"}, keys[0].Allowed)
	assert.Equal(t, "mirrors[1].url", keys[0].Suggestion)
}

func TestFindUnknownKeysNestedUnderScalar(t *testing.T) {
	type root struct {
		Name string `toml:"name"`
	}
	var keys []unknownKey
	findUnknownKeys(map[string]any{"name": map[string]any{"inner": 1}}, buildSchema(reflect.TypeOf(root{})), "", &keys)

	require.Len(t, keys, 1)
	assert.Equal(t, "name.inner", keys[0].Path)
	assert.Empty(t, keys[0].Allowed)
	assert.Contains(t, unknownKeyRecommendation("c.toml", keys), "no nested keys are allowed here")
}

func TestSuggestRename(t *testing.T) {
	schema := configSchema().children["auth"]
	assert.Equal(t, "auth.elevation_tool", suggestRename("elevation-tool", schema, "auth"))
	assert.Equal(t, "auth.shell", suggestRename("SHELL", schema, "auth"))
	assert.Equal(t, "auth.timeout", suggestRename("timout", schema, "auth"))
	assert.Empty(t, suggestRename("password", schema, "auth"))
	assert.Empty(t, suggestRename("x", &schemaNode{}, ""))
}

func TestJoinPathQuotesSpecialCharacters(t *testing.T) {
	assert.Equal(t, "install.root", joinPath("install", "root"))
	assert.Equal(t, "auth.elevation-tool", joinPath("auth", "elevation-tool"))
	assert.Equal(t, `install["foo.bar"]`, joinPath("install", "foo.bar"))
	assert.Equal(t, `[""]`, joinPath("", ""))
}

func TestSummarizeUnknownKeys(t *testing.T) {
	assert.Equal(t, "unrecognized config keys", summarizeUnknownKeys(nil))
	assert.Equal(t, "unrecognized config keys: a.x, b.y",
		summarizeUnknownKeys([]unknownKey{{Path: "b.y"}, {Path: "a.x"}}))
	assert.Empty(t, unknownKeyRecommendation("c.toml", nil))
}

func TestConfigSchemaCoversEveryTable(t *testing.T) {
	assert.Equal(t, []string{"auth", "download", "install", "log", "repo", "trace"}, configSchema().allowedKeys())
	assert.Equal(t, []string{"dependencies", "manager", "root"}, configSchema().children["install"].allowedKeys())
}

package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/pelletier/go-toml/v2"

	"github.com/limit-lab/limit-up/internal/config"
	"github.com/limit-lab/limit-up/internal/messages"
)

// unknownKey is one key in the config file that the schema does not define.
type unknownKey struct {
	Path       string
	Allowed    []string
	Suggestion string
}

// schemaNode is one table or value in the config schema.
type schemaNode struct {
	children   map[string]*schemaNode
	arrayChild *schemaNode
	allowAny   bool
}

// maxKeyDistance bounds the edit distance of a key rename suggestion.
const maxKeyDistance = 2

var (
	schemaOnce sync.Once
	schemaRoot *schemaNode
)

// summarizeUnknownKeys returns a one-line summary for the result message.
func summarizeUnknownKeys(keys []unknownKey) string {
	if len(keys) == 0 {
		return messages.DoctorConfigUnknownKeysSummary
	}
	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		paths = append(paths, key.Path)
	}
	sort.Strings(paths)
	return fmt.Sprintf(messages.DoctorConfigUnknownKeysListFmt, strings.Join(paths, ", "))
}

// unknownKeyRecommendation renders the multi-line fix advice for unknown keys.
func unknownKeyRecommendation(configPath string, keys []unknownKey) string {
	if len(keys) == 0 {
		return ""
	}
	lines := []string{
		messages.DoctorConfigUnknownKeysHeader,
		fmt.Sprintf(messages.DoctorConfigUnknownKeysEditFmt, configPath),
		"",
		messages.DoctorConfigUnknownKeysDetected,
	}
	for _, key := range keys {
		line := fmt.Sprintf(messages.DoctorConfigUnknownKeyFmt, key.Path)
		if len(key.Allowed) > 0 {
			line = fmt.Sprintf(messages.DoctorConfigAllowedKeysFmt, line, strings.Join(key.Allowed, ", "))
		} else {
			line = fmt.Sprintf(messages.DoctorConfigNoNestedKeysFmt, line)
		}
		if key.Suggestion != "" {
			line = fmt.Sprintf(messages.DoctorConfigDidYouMeanFmt, line, key.Suggestion)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", messages.DoctorConfigUnknownKeysFix)
	return strings.Join(lines, "\n")
}

// findUnknownKeysInFile reads configPath and lists keys the schema does not define, sorted by path.
func findUnknownKeysInFile(configPath string) ([]unknownKey, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var keys []unknownKey
	findUnknownKeys(raw, configSchema(), "", &keys)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Path < keys[j].Path
	})
	return keys, nil
}

// configSchema builds and caches the schema derived from config.Config.
func configSchema() *schemaNode {
	schemaOnce.Do(func() {
		schemaRoot = buildSchema(reflect.TypeOf(config.Config{}))
	})
	return schemaRoot
}

// buildSchema walks t's toml tags.
func buildSchema(t reflect.Type) *schemaNode {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		node := &schemaNode{children: make(map[string]*schemaNode)}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			key := strings.Split(strings.TrimSpace(field.Tag.Get("toml")), ",")[0]
			if key == "" || key == "-" {
				continue
			}
			node.children[key] = buildSchema(field.Type)
		}
		return node
	case reflect.Map:
		return &schemaNode{allowAny: true}
	case reflect.Slice, reflect.Array:
		return &schemaNode{arrayChild: buildSchema(t.Elem())}
	default:
		return &schemaNode{}
	}
}

func findUnknownKeys(raw any, schema *schemaNode, path string, keys *[]unknownKey) {
	if schema == nil || raw == nil || schema.allowAny {
		return
	}
	switch typed := raw.(type) {
	case map[string]any:
		allowed := schema.allowedKeys()
		for key, value := range typed {
			child, ok := schema.children[key]
			if !ok {
				*keys = append(*keys, unknownKey{
					Path:       joinPath(path, key),
					Allowed:    allowed,
					Suggestion: suggestRename(key, schema, path),
				})
				continue
			}
			findUnknownKeys(value, child, joinPath(path, key), keys)
		}
	case []any:
		if schema.arrayChild == nil {
			return
		}
		for i, item := range typed {
			findUnknownKeys(item, schema.arrayChild, fmt.Sprintf("%s[%d]", path, i), keys)
		}
	}
}

func (n *schemaNode) allowedKeys() []string {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(path, key string) string {
	segment := pathSegment(key)
	if path == "" {
		return segment
	}
	if strings.HasPrefix(segment, "[") {
		return path + segment
	}
	return path + "." + segment
}

// pathSegment quotes keys that are not bare TOML keys.
func pathSegment(key string) string {
	if key != "" && strings.IndexFunc(key, func(r rune) bool {
		return r != '_' && r != '-' &&
			(r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9')
	}) == -1 {
		return key
	}
	return fmt.Sprintf("[%q]", key)
}

// suggestRename maps an unknown key to the closest known key in the same table.
func suggestRename(key string, schema *schemaNode, path string) string {
	if schema == nil || len(schema.children) == 0 {
		return ""
	}
	normalized := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	if _, ok := schema.children[normalized]; ok {
		return joinPath(path, normalized)
	}
	best, bestDist := "", maxKeyDistance+1
	for _, allowed := range schema.allowedKeys() {
		if dist := levenshtein.ComputeDistance(normalized, allowed); dist < bestDist {
			best, bestDist = allowed, dist
		}
	}
	if best == "" {
		return ""
	}
	return joinPath(path, best)
}

package openapi

import (
	"encoding/json"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/host-uk/coolifyctl/faults"
)

// Document is the parsed specification tree. It is built once and never
// mutated afterwards, so it is safe to share across goroutines.
type Document struct {
	root map[string]any
}

// LoadDocument accepts a raw specification document, JSON first with YAML
// as a fallback.
func LoadDocument(data []byte) (*Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, faults.NewTypedError(faults.SpecLoadError, "specification document is empty", nil)
	}

	var raw any
	var err error
	if looksLikeJSON(trimmed) {
		err = json.Unmarshal([]byte(trimmed), &raw)
		if err != nil {
			err = yaml.Unmarshal([]byte(trimmed), &raw)
		}
	} else {
		err = yaml.Unmarshal([]byte(trimmed), &raw)
	}
	if err != nil {
		return nil, faults.NewTypedError(faults.SpecLoadError, "parse specification document", err)
	}

	root, ok := normalizeValue(raw).(map[string]any)
	if !ok {
		return nil, faults.NewTypedError(faults.SpecLoadError, "specification document must be a mapping", nil)
	}
	return &Document{root: root}, nil
}

// LoadDocumentFile reads and parses the specification at path.
func LoadDocumentFile(path string) (*Document, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, faults.NewTypedError(faults.SpecLoadError, "specification path is empty", nil)
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, faults.NewTypedError(faults.SpecLoadError, "read specification "+trimmed, err)
	}
	return LoadDocument(data)
}

// LoadDocumentValue wraps an already-parsed specification mapping.
func LoadDocumentValue(value any) (*Document, error) {
	root, ok := normalizeValue(value).(map[string]any)
	if !ok {
		return nil, faults.NewTypedError(faults.SpecLoadError, "specification value must be a mapping", nil)
	}
	return &Document{root: root}, nil
}

// ResolveRef navigates a document-relative pointer ("#/a/b/c") and returns
// the referenced value, or nil when any segment is absent. External
// references are not supported.
func (d *Document) ResolveRef(ref string) any {
	if d == nil || d.root == nil {
		return nil
	}
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "#/") {
		return nil
	}

	var current any = d.root
	for _, segment := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		if segment == "" {
			continue
		}
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}
	return current
}

func looksLikeJSON(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '{', '[':
		return true
	default:
		return false
	}
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = normalizeValue(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			strKey, ok := key.(string)
			if !ok {
				continue
			}
			out[strKey] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, entry := range typed {
			out = append(out, normalizeValue(entry))
		}
		return out
	default:
		return typed
	}
}

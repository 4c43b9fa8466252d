package openapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Request is a concrete HTTP request resolved from an operation template.
// RawQuery carries client-level auth parameters ahead of the
// parameter-derived pairs.
type Request struct {
	Method      string
	Path        string
	RawQuery    string
	Body        []byte
	ContentType string
}

// ParamValue looks up name in the caller-supplied parameter map, bridging
// the hyphen and underscore naming conventions in both directions.
func ParamValue(params map[string]any, name string) (any, bool) {
	if params == nil {
		return nil, false
	}
	if value, ok := params[name]; ok {
		return value, true
	}
	if strings.Contains(name, "-") {
		if value, ok := params[strings.ReplaceAll(name, "-", "_")]; ok {
			return value, true
		}
	}
	if strings.Contains(name, "_") {
		if value, ok := params[strings.ReplaceAll(name, "_", "-")]; ok {
			return value, true
		}
	}
	return nil, false
}

// BuildRequest resolves op and the caller parameter map into a concrete
// request. auth parameters, when present, lead the query string and any
// form-encoded body. Declared parameters absent from the caller map are
// left unresolved for the remote server to validate.
func BuildRequest(doc *Document, op *Operation, params map[string]any, auth url.Values) (*Request, error) {
	if op == nil {
		return nil, faults.NewTypedError(faults.InternalError, "operation is nil", nil)
	}

	path := op.Path
	query := url.Values{}
	for _, param := range op.Parameters {
		value, ok := ParamValue(params, param.Name)
		if !ok || value == nil {
			continue
		}
		switch param.In {
		case "path":
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(paramString(value)))
		case "query":
			query.Set(param.Name, paramString(value))
		}
	}

	body, contentType, err := buildBody(doc, op, params, auth)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:      strings.ToUpper(op.Method),
		Path:        path,
		RawQuery:    joinQuery(auth.Encode(), query.Encode()),
		Body:        body,
		ContentType: contentType,
	}, nil
}

func buildBody(doc *Document, op *Operation, params map[string]any, auth url.Values) ([]byte, string, error) {
	content, ok := op.RequestBody["content"].(map[string]any)
	if !ok {
		return nil, "", nil
	}

	if media, ok := content[contentTypeForm].(map[string]any); ok {
		encoded := joinQuery(auth.Encode(), encodeFormFields(doc, media, params))
		return []byte(encoded), contentTypeForm, nil
	}

	if _, ok := content[contentTypeJSON]; ok {
		payload := params
		if payload == nil {
			payload = map[string]any{}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", faults.NewTypedError(faults.ValidationError, "encode request body", err)
		}
		return data, contentTypeJSON, nil
	}

	return nil, "", nil
}

// encodeFormFields filters the caller map to the dereferenced body schema's
// property set. Nil values and boolean false are treated as absent.
func encodeFormFields(doc *Document, media map[string]any, params map[string]any) string {
	schema, ok := media["schema"].(map[string]any)
	if !ok {
		return ""
	}
	if ref := stringField(schema, "$ref"); ref != "" {
		if resolved, ok := doc.ResolveRef(ref).(map[string]any); ok {
			schema = resolved
		}
	}
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return ""
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := url.Values{}
	for _, name := range names {
		value, ok := ParamValue(params, name)
		if !ok || value == nil {
			continue
		}
		if flag, ok := value.(bool); ok && !flag {
			continue
		}
		fields.Set(name, paramString(value))
	}
	return fields.Encode()
}

func joinQuery(first, second string) string {
	if first == "" {
		return second
	}
	if second == "" {
		return first
	}
	return first + "&" + second
}

func paramString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	default:
		return fmt.Sprint(typed)
	}
}

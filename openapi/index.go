package openapi

import (
	"sort"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// Operation is one indexed specification operation.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Tags        []string
	Parameters  []Parameter
	RequestBody map[string]any
	Mutating    bool
}

// HasTag reports whether the operation carries the given tag.
func (o *Operation) HasTag(tag string) bool {
	if o == nil {
		return false
	}
	for _, current := range o.Tags {
		if strings.EqualFold(current, tag) {
			return true
		}
	}
	return false
}

// Parameter is a declared operation parameter. Path-item level parameters
// come first in Operation.Parameters; operation-level entries follow and
// shadow by name at resolution time.
type Parameter struct {
	Name     string
	In       string
	Required bool
	Schema   map[string]any
}

// Index maps operation identifiers to request templates.
type Index struct {
	doc        *Document
	operations map[string]*Operation
}

var mutatingPrefixes = []string{
	"create-", "update-", "delete-", "start-", "stop-",
	"restart-", "validate-", "deploy-", "cancel-",
}

// BuildIndex walks the document's paths and indexes every operation that
// carries an operationId. Duplicate identifiers are rejected rather than
// silently shadowed.
func BuildIndex(doc *Document) (*Index, error) {
	if doc == nil || doc.root == nil {
		return nil, faults.NewTypedError(faults.SpecLoadError, "specification document is nil", nil)
	}
	pathsValue, ok := doc.root["paths"].(map[string]any)
	if !ok {
		return nil, faults.NewTypedError(faults.SpecLoadError, "specification document missing paths", nil)
	}

	operations := make(map[string]*Operation)
	for template, value := range pathsValue {
		itemMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		pathParams := parameterList(itemMap["parameters"], doc)
		for key, entry := range itemMap {
			method := strings.ToLower(strings.TrimSpace(key))
			if !isHTTPMethod(method) {
				continue
			}
			opMap, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			id := stringField(opMap, "operationId")
			if id == "" {
				continue
			}
			if _, exists := operations[id]; exists {
				return nil, faults.NewTypedError(faults.SpecLoadError, "duplicate operation identifier "+id, nil)
			}

			params := append([]Parameter(nil), pathParams...)
			params = append(params, parameterList(opMap["parameters"], doc)...)
			var body map[string]any
			if requestBody, ok := opMap["requestBody"].(map[string]any); ok {
				body = requestBody
			}
			operations[id] = &Operation{
				ID:          id,
				Method:      method,
				Path:        template,
				Summary:     stringField(opMap, "summary"),
				Tags:        stringList(opMap["tags"]),
				Parameters:  params,
				RequestBody: body,
				Mutating:    classifyMutating(id, opMap, method),
			}
		}
	}

	return &Index{doc: doc, operations: operations}, nil
}

// Lookup returns the operation for id, or an UnknownOperationError naming a
// sample of known identifiers.
func (i *Index) Lookup(id string) (*Operation, error) {
	if i == nil {
		return nil, faults.NewTypedError(faults.InternalError, "operation index is nil", nil)
	}
	id = strings.TrimSpace(id)
	op, ok := i.operations[id]
	if !ok {
		known := i.OperationIDs()
		if len(known) > 10 {
			known = known[:10]
		}
		message := "unknown operation " + id
		if len(known) > 0 {
			message += ". Known operations include: " + strings.Join(known, ", ")
		}
		return nil, faults.NewTypedError(faults.UnknownOperationError, message, nil)
	}
	return op, nil
}

// OperationIDs returns every indexed identifier in sorted order.
func (i *Index) OperationIDs() []string {
	if i == nil {
		return nil
	}
	ids := make([]string, 0, len(i.operations))
	for id := range i.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Operations returns every indexed operation sorted by identifier.
func (i *Index) Operations() []*Operation {
	if i == nil {
		return nil
	}
	ops := make([]*Operation, 0, len(i.operations))
	for _, id := range i.OperationIDs() {
		ops = append(ops, i.operations[id])
	}
	return ops
}

// Document returns the backing specification tree.
func (i *Index) Document() *Document {
	if i == nil {
		return nil
	}
	return i.doc
}

// classifyMutating prefers an explicit x-mutating extension on the
// operation, then falls back to the identifier prefix convention, then to
// the HTTP method.
func classifyMutating(id string, op map[string]any, method string) bool {
	if flag, ok := op["x-mutating"].(bool); ok {
		return flag
	}
	for _, prefix := range mutatingPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	switch method {
	case "post", "put", "patch", "delete":
		return true
	default:
		return false
	}
}

func parameterList(value any, doc *Document) []Parameter {
	rawList, ok := value.([]any)
	if !ok {
		return nil
	}
	var params []Parameter
	for _, entry := range rawList {
		node, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if ref := stringField(node, "$ref"); ref != "" {
			resolved, ok := doc.ResolveRef(ref).(map[string]any)
			if !ok {
				continue
			}
			node = resolved
		}
		name := stringField(node, "name")
		if name == "" {
			continue
		}
		required, _ := node["required"].(bool)
		schema, _ := node["schema"].(map[string]any)
		params = append(params, Parameter{
			Name:     name,
			In:       strings.ToLower(stringField(node, "in")),
			Required: required,
			Schema:   schema,
		})
	}
	return params
}

func stringList(value any) []string {
	rawList, ok := value.([]any)
	if !ok {
		return nil
	}
	var list []string
	for _, entry := range rawList {
		if str, ok := entry.(string); ok && strings.TrimSpace(str) != "" {
			list = append(list, strings.TrimSpace(str))
		}
	}
	return list
}

func stringField(value map[string]any, key string) string {
	if value == nil {
		return ""
	}
	raw, ok := value[key]
	if !ok {
		return ""
	}
	str, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}

func isHTTPMethod(method string) bool {
	switch method {
	case "get", "post", "put", "patch", "delete", "options", "head":
		return true
	default:
		return false
	}
}

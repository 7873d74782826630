// Package openapi parses OpenAPI specification files into a typed schema and
// builds one retrievable documentation record per endpoint operation.
package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Methods is the fixed iteration order for HTTP methods within a path item.
// Records are always emitted in this order regardless of the source document.
var Methods = []string{"get", "post", "put", "delete", "patch", "options", "head"}

// Spec is a parsed OpenAPI specification. Only the subset of the OpenAPI
// object shape needed for record building is retained; every field defaults
// to its zero value when absent from the source document, so no lookup can
// fail downstream.
type Spec struct {
	Info  Info
	Paths []PathItem
}

// Info carries the specification's info block.
type Info struct {
	Title   string
	Version string
}

// PathItem is one entry of the spec's paths map, holding the operations
// defined for that URL template in fixed method order.
type PathItem struct {
	Path       string
	Operations []Operation
}

// Operation is one (path, method) pair.
type Operation struct {
	// Method is the lowercase HTTP method name.
	Method string

	// OperationID is the source operationId, or "<method>_<path>" when the
	// source omits it.
	OperationID string

	Summary     string
	Description string

	// Tags are metadata labels from the source spec. Never nil.
	Tags []string

	Parameters []Parameter

	// RequestBody is nil when the source operation has no requestBody key.
	RequestBody *RequestBody

	// Responses preserves the source mapping's own key order.
	Responses []Response
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string
	In          string
	Required    bool
	Description string
	Schema      json.RawMessage
}

// RequestBody describes an operation's request body.
type RequestBody struct {
	Description string
	Required    bool

	// ContentTypes preserves the source content map's own key order.
	ContentTypes []string
}

// Response describes one status-code entry of an operation's responses map.
type Response struct {
	Code        string
	Description string

	ContentTypes []string
}

// member is one key/value pair of a JSON object in source order.
type member struct {
	key   string
	value json.RawMessage
}

// objectMembers decodes a JSON object's members preserving their order in the
// source document. encoding/json maps would lose that order.
func objectMembers(raw []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding value for key %q: %w", key, err)
		}

		members = append(members, member{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return members, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Parse validates and decodes an OpenAPI JSON document. Malformed JSON is an
// error; a document without a paths map parses to a Spec with zero paths.
func Parse(data []byte) (*Spec, error) {
	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}

	spec := &Spec{
		Info: Info{
			Title:   doc.Info.Title,
			Version: doc.Info.Version,
		},
	}

	if isNull(doc.Paths) {
		return spec, nil
	}

	paths, err := objectMembers(doc.Paths)
	if err != nil {
		return nil, fmt.Errorf("parsing paths: %w", err)
	}

	for _, p := range paths {
		item, err := parsePathItem(p.key, p.value)
		if err != nil {
			return nil, fmt.Errorf("parsing path %q: %w", p.key, err)
		}
		spec.Paths = append(spec.Paths, item)
	}

	return spec, nil
}

// ParseFile reads and parses a spec file from disk.
func ParseFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return spec, nil
}

func parsePathItem(path string, raw json.RawMessage) (PathItem, error) {
	item := PathItem{Path: path}

	var methods map[string]json.RawMessage
	if err := json.Unmarshal(raw, &methods); err != nil {
		return item, err
	}

	for _, method := range Methods {
		opRaw, ok := methods[method]
		if !ok || isNull(opRaw) {
			continue
		}

		op, err := parseOperation(path, method, opRaw)
		if err != nil {
			return item, fmt.Errorf("parsing %s operation: %w", method, err)
		}
		item.Operations = append(item.Operations, op)
	}

	return item, nil
}

func parseOperation(path, method string, raw json.RawMessage) (Operation, error) {
	var src struct {
		OperationID string   `json:"operationId"`
		Summary     string   `json:"summary"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		Parameters  []struct {
			Name        string          `json:"name"`
			In          string          `json:"in"`
			Required    bool            `json:"required"`
			Description string          `json:"description"`
			Schema      json.RawMessage `json:"schema"`
		} `json:"parameters"`
		RequestBody json.RawMessage `json:"requestBody"`
		Responses   json.RawMessage `json:"responses"`
	}
	if err := json.Unmarshal(raw, &src); err != nil {
		return Operation{}, err
	}

	op := Operation{
		Method:      method,
		OperationID: src.OperationID,
		Summary:     src.Summary,
		Description: src.Description,
		Tags:        src.Tags,
	}

	if op.OperationID == "" {
		op.OperationID = method + "_" + path
	}
	if op.Tags == nil {
		op.Tags = []string{}
	}

	for _, p := range src.Parameters {
		op.Parameters = append(op.Parameters, Parameter{
			Name:        p.Name,
			In:          p.In,
			Required:    p.Required,
			Description: p.Description,
			Schema:      p.Schema,
		})
	}

	if !isNull(src.RequestBody) {
		body, err := parseRequestBody(src.RequestBody)
		if err != nil {
			return Operation{}, fmt.Errorf("parsing requestBody: %w", err)
		}
		op.RequestBody = body
	}

	if !isNull(src.Responses) {
		responses, err := parseResponses(src.Responses)
		if err != nil {
			return Operation{}, fmt.Errorf("parsing responses: %w", err)
		}
		op.Responses = responses
	}

	return op, nil
}

func parseRequestBody(raw json.RawMessage) (*RequestBody, error) {
	var src struct {
		Description string          `json:"description"`
		Required    bool            `json:"required"`
		Content     json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, err
	}

	body := &RequestBody{
		Description: src.Description,
		Required:    src.Required,
	}

	if !isNull(src.Content) {
		content, err := objectMembers(src.Content)
		if err != nil {
			return nil, fmt.Errorf("parsing content: %w", err)
		}
		for _, c := range content {
			body.ContentTypes = append(body.ContentTypes, c.key)
		}
	}

	return body, nil
}

func parseResponses(raw json.RawMessage) ([]Response, error) {
	entries, err := objectMembers(raw)
	if err != nil {
		return nil, err
	}

	var responses []Response
	for _, entry := range entries {
		var src struct {
			Description string          `json:"description"`
			Content     json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(entry.value, &src); err != nil {
			return nil, fmt.Errorf("parsing response %q: %w", entry.key, err)
		}

		resp := Response{
			Code:        entry.key,
			Description: src.Description,
		}

		if !isNull(src.Content) {
			content, err := objectMembers(src.Content)
			if err != nil {
				return nil, fmt.Errorf("parsing response %q content: %w", entry.key, err)
			}
			for _, c := range content {
				resp.ContentTypes = append(resp.ContentTypes, c.key)
			}
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

package fieldsource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Extension keys read from request body properties.
const (
	ExtensionWidget = "x-formgen-widget"
	ExtensionOrder  = "x-formgen-order"
	ExtensionLabel  = "x-formgen-label"
)

// ErrOperationNotFound is returned when the document has no operation with
// the requested id.
var ErrOperationNotFound = errors.New("fieldsource: operation not found")

// OpenAPIOption configures FromOpenAPI.
type OpenAPIOption func(*openAPIConfig)

type openAPIConfig struct {
	externalRefs bool
	validate     bool
}

// WithExternalRefs allows the loader to resolve references outside the
// document.
func WithExternalRefs() OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.externalRefs = true
	}
}

// WithValidation validates the document before extracting fields.
func WithValidation() OpenAPIOption {
	return func(cfg *openAPIConfig) {
		cfg.validate = true
	}
}

// FromOpenAPI derives field definitions from the request body schema of
// operationID. Each top-level object property becomes one definition:
// password-formatted strings become password fields, integers and numbers
// become number fields and properties marked x-formgen-widget: rating become
// ratings bounded by their maximum. Fields are ordered by x-formgen-order,
// then by name.
func FromOpenAPI(ctx context.Context, data []byte, operationID string, options ...OpenAPIOption) ([]model.FieldDefinition, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: openapi", ErrEmptyDocument)
	}

	cfg := openAPIConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("fieldsource: load openapi document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("fieldsource: validate openapi document: %w", err)
		}
	}

	operation := findOperation(doc, strings.TrimSpace(operationID))
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	schema := requestSchema(operation.RequestBody)
	if schema == nil {
		return nil, fmt.Errorf("fieldsource: operation %q has no request body schema", operationID)
	}
	if schema.Type != nil && !schema.Type.Is(openapi3.TypeObject) {
		return nil, fmt.Errorf("fieldsource: operation %q request body is not an object", operationID)
	}

	return fieldsFromSchema(schema), nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil || operationID == "" {
		return nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	mediaTypes := make([]string, 0, len(content))
	for mediaType := range content {
		mediaTypes = append(mediaTypes, mediaType)
	}
	sort.Strings(mediaTypes)
	for _, mediaType := range mediaTypes {
		if mt := content[mediaType]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type orderedField struct {
	def   model.FieldDefinition
	order int
	set   bool
}

func fieldsFromSchema(schema *openapi3.Schema) []model.FieldDefinition {
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	items := make([]orderedField, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		order, set := intExtension(prop.Extensions, ExtensionOrder)
		_, isRequired := required[name]
		items = append(items, orderedField{
			def:   definitionFor(name, prop, isRequired),
			order: order,
			set:   set,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.set != b.set {
			return a.set
		}
		if a.set && a.order != b.order {
			return a.order < b.order
		}
		return a.def.Key < b.def.Key
	})

	fields := make([]model.FieldDefinition, 0, len(items))
	for _, item := range items {
		fields = append(fields, item.def)
	}
	return fields
}

func definitionFor(name string, prop *openapi3.Schema, required bool) model.FieldDefinition {
	def := model.FieldDefinition{
		Key:      name,
		Type:     fieldTypeFor(prop),
		Label:    strings.TrimSpace(prop.Title),
		Required: required,
		ReadOnly: prop.ReadOnly,
	}
	if label := stringExtension(prop.Extensions, ExtensionLabel); label != "" {
		def.Label = label
	}
	if def.Type == model.FieldTypeRating && prop.Max != nil && *prop.Max >= 1 {
		def.UpperBound = model.IntPtr(int(math.Floor(*prop.Max)))
	}
	if example, ok := prop.Example.(string); ok && def.Type != model.FieldTypeRating {
		def.Placeholder = example
	}
	return def
}

func fieldTypeFor(prop *openapi3.Schema) model.FieldType {
	if widget := stringExtension(prop.Extensions, ExtensionWidget); widget != "" {
		return model.FieldType(widget)
	}
	switch {
	case prop.Type == nil:
		return model.FieldTypeText
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	case prop.Type.Is(openapi3.TypeString) && prop.Format == "password":
		return model.FieldTypePassword
	default:
		return model.FieldTypeText
	}
}

func stringExtension(ext map[string]any, key string) string {
	if len(ext) == 0 {
		return ""
	}
	value, ok := ext[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func intExtension(ext map[string]any, key string) (int, bool) {
	if len(ext) == 0 {
		return 0, false
	}
	switch value := ext[key].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case int64:
		return int(value), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		return n, err == nil
	default:
		return 0, false
	}
}

// Package fieldsource loads field definitions, values and server errors from
// documents. Definitions come from JSON/YAML files or from the request body
// schema of an OpenAPI operation.
package fieldsource

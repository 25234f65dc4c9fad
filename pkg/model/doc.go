// Package model defines the data handed to the form core by its host: ordered
// field definitions, the values mapping keyed by field key, and the errors
// structure split into per-field and form-level messages. Values are a small
// tagged union (null, string, number) so equality checks stay cheap and the
// re-render suppression in package field can compare them with ==.
package model

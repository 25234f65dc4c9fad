package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formkit/pkg/model"
)

// SampleFields returns one definition per built-in field kind, in the order
// the contract tests expect.
func SampleFields() []model.FieldDefinition {
	return []model.FieldDefinition{
		{Key: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
		{Key: "password", Type: model.FieldTypePassword, Label: "Password"},
		{Key: "age", Type: model.FieldTypeNumber, Label: "Age"},
		{Key: "rating", Type: model.FieldTypeRating, Label: "Rating", UpperBound: model.IntPtr(5)},
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

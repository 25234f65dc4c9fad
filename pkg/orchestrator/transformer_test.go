package orchestrator

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func TestPresetTransformer_PatchesAndOrders(t *testing.T) {
	transformer, err := NewPresetTransformer([]byte(`{
		"order": ["rating", "name"],
		"fields": {
			"name": {"label": "Full name", "placeholder": "Ada"},
			"password": {"hidden": true},
			"age": {"rename": "years", "required": true},
			"rating": {"upperBound": 10, "emptyLabel": "None"}
		}
	}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}

	fields, err := transformer.Transform(context.Background(), testsupport.SampleFields())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	want := []model.FieldDefinition{
		{Key: "rating", Type: model.FieldTypeRating, Label: "Rating", UpperBound: model.IntPtr(10), EmptyLabel: "None"},
		{Key: "name", Type: model.FieldTypeText, Label: "Full name", Placeholder: "Ada", Required: true},
		{Key: "years", Type: model.FieldTypeNumber, Label: "Age", Required: true},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetTransformer_YAMLFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"presets/profile.yaml": {Data: []byte("fields:\n  name:\n    required: false\n    type: password\n")},
	}
	transformer, err := NewPresetTransformerFromFS(fsys, "presets/profile.yaml")
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	fields, err := transformer.Transform(context.Background(), testsupport.SampleFields())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if fields[0].Required || fields[0].Type != model.FieldTypePassword {
		t.Fatalf("expected patched name field, got %#v", fields[0])
	}
	if len(fields) != 4 {
		t.Fatalf("expected every field kept, got %d", len(fields))
	}
}

func TestPresetTransformer_Errors(t *testing.T) {
	if _, err := NewPresetTransformer([]byte("  ")); err == nil {
		t.Fatal("expected empty document error")
	}
	if _, err := NewPresetTransformerFromFS(fstest.MapFS{}, "missing.json"); err == nil {
		t.Fatal("expected read error")
	}

	transformer, err := NewPresetTransformer([]byte(`{"fields": {"ghost": {"label": "Boo"}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	_, err = transformer.Transform(context.Background(), testsupport.SampleFields())
	if err == nil || !strings.Contains(err.Error(), `"ghost"`) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestPresetTransformer_RejectsNonPositiveUpperBound(t *testing.T) {
	transformer, err := NewPresetTransformer([]byte(`{"fields": {"rating": {"upperBound": -3}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	_, err = transformer.Transform(context.Background(), testsupport.SampleFields())
	if err == nil || !strings.Contains(err.Error(), "upperBound") {
		t.Fatalf("expected upperBound error, got %v", err)
	}
}

func TestPresetTransformer_LeavesInputUntouched(t *testing.T) {
	transformer, err := NewPresetTransformer([]byte(`{"fields": {"name": {"label": "Changed"}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	input := testsupport.SampleFields()
	if _, err := transformer.Transform(context.Background(), input); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if input[0].Label != "Name" {
		t.Fatalf("input mutated: %#v", input[0])
	}
}

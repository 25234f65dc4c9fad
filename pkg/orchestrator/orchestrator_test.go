package orchestrator

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

type captureRenderer struct {
	name string
	last render.Request
	err  error
}

func (c *captureRenderer) Name() string        { return c.name }
func (c *captureRenderer) ContentType() string { return "text/plain" }

func (c *captureRenderer) Render(_ context.Context, req render.Request) ([]byte, error) {
	c.last = req
	if c.err != nil {
		return nil, c.err
	}
	return []byte(strings.Join(model.Keys(req.Fields), ",")), nil
}

func TestGenerate_DefaultsToVanillaHTML(t *testing.T) {
	orch := New()
	out, err := orch.Generate(testsupport.Context(), Request{
		Fields: testsupport.SampleFields(),
		Values: model.Values{"name": model.String("Ada")},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, fragment := range []string{`<form class="fk-form"`, `name="name"`, `value="Ada"`, `data-fk-rating`} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
}

func TestGenerate_SelectsNamedRenderer(t *testing.T) {
	stub := &captureRenderer{name: "stub"}
	orch := New(WithRenderer(stub))

	out, err := orch.Generate(context.Background(), Request{
		Fields:   testsupport.SampleFields(),
		Renderer: "stub",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "name,password,age,rating" {
		t.Fatalf("unexpected output %q", out)
	}
	if !cmp.Equal(orch.Registry().List(), []string{"stub", "vanilla"}) {
		t.Fatalf("unexpected registry %v", orch.Registry().List())
	}
}

func TestGenerate_UnknownRendererFails(t *testing.T) {
	orch := New()
	_, err := orch.Generate(context.Background(), Request{
		Fields:   testsupport.SampleFields(),
		Renderer: "pdf",
	})
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}

func TestGenerate_DuplicateRendererSurfacesOnGenerate(t *testing.T) {
	orch := New(WithRenderer(&captureRenderer{name: "vanilla"}))
	if _, err := orch.Generate(context.Background(), Request{Fields: testsupport.SampleFields()}); err == nil {
		t.Fatal("expected registration error")
	}
}

func TestGenerate_DefaultRendererOverride(t *testing.T) {
	stub := &captureRenderer{name: "stub"}
	registry := render.NewRegistry()
	registry.MustRegister(stub)
	orch := New(WithRegistry(registry), WithDefaultRenderer("stub"))

	if _, err := orch.Generate(context.Background(), Request{Fields: testsupport.SampleFields()}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(stub.last.Fields) != 4 {
		t.Fatalf("expected stub to receive the fields, got %#v", stub.last.Fields)
	}
}

func TestGenerate_LoadsDefinitionsFromFS(t *testing.T) {
	stub := &captureRenderer{name: "stub"}
	orch := New(WithRenderer(stub), WithDefaultRenderer("stub"))

	fsys := fstest.MapFS{
		"form.json": {Data: []byte(`[{"key":"email","type":"text"},{"key":"score","type":"rating"}]`)},
	}
	out, err := orch.Generate(context.Background(), Request{DefinitionsFS: fsys, DefinitionsPath: "form.json"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "email,score" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGenerate_LoadsDefinitionsFromOpenAPI(t *testing.T) {
	data, err := os.ReadFile("../fieldsource/testdata/profile.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	stub := &captureRenderer{name: "stub"}
	orch := New(WithRenderer(stub), WithDefaultRenderer("stub"))

	out, err := orch.Generate(context.Background(), Request{OpenAPI: data, OperationID: "createProfile"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "name,secret,age,nickname,stars" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := orch.Generate(context.Background(), Request{OpenAPI: data}); err == nil {
		t.Fatal("expected missing operation id error")
	}
}

func TestGenerate_RequiresDefinitions(t *testing.T) {
	if _, err := New().Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error without definitions")
	}
}

func TestGenerate_MergesErrorPayload(t *testing.T) {
	stub := &captureRenderer{name: "stub"}
	orch := New(WithRenderer(stub), WithDefaultRenderer("stub"))

	_, err := orch.Generate(context.Background(), Request{
		Fields: testsupport.SampleFields(),
		Errors: &model.Errors{
			Fields: map[string][]string{"name": {"Required."}},
			Form:   []string{"Try again."},
		},
		ErrorPayload: map[string][]string{
			"/body/name":       {"Too short."},
			"/body/age":        {"Must be positive."},
			"non_field_errors": {"Try again.", "Locked."},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := &model.Errors{
		Fields: map[string][]string{
			"name": {"Required.", "Too short."},
			"age":  {"Must be positive."},
		},
		Form:        []string{"Try again.", "Locked."},
		FormPresent: true,
	}
	if diff := cmp.Diff(want, stub.last.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_AppliesTransformer(t *testing.T) {
	stub := &captureRenderer{name: "stub"}
	orch := New(
		WithRenderer(stub),
		WithDefaultRenderer("stub"),
		WithSchemaTransformer(TransformerFunc(func(_ context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
			return fields[:1], nil
		})),
	)
	out, err := orch.Generate(context.Background(), Request{Fields: testsupport.SampleFields()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "name" {
		t.Fatalf("unexpected output %q", out)
	}

	failing := New(WithSchemaTransformer(TransformerFunc(func(context.Context, []model.FieldDefinition) ([]model.FieldDefinition, error) {
		return nil, errors.New("boom")
	})))
	if _, err := failing.Generate(context.Background(), Request{Fields: testsupport.SampleFields()}); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestGenerate_WrapsRendererError(t *testing.T) {
	stub := &captureRenderer{name: "stub", err: errors.New("render failed")}
	orch := New(WithRenderer(stub), WithDefaultRenderer("stub"))
	_, err := orch.Generate(context.Background(), Request{Fields: testsupport.SampleFields()})
	if err == nil || !strings.Contains(err.Error(), "orchestrator: render output: render failed") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGenerate_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, Request{Fields: testsupport.SampleFields()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

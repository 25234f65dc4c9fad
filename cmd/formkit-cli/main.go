package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formkit/pkg/fieldsource"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

func main() {
	fields := flag.String("fields", "", "field definitions file (JSON or YAML)")
	openapi := flag.String("openapi", "", "OpenAPI document to derive fields from")
	opID := flag.String("operation", "", "operation ID when -openapi is set")
	values := flag.String("values", "", "current values file (JSON or YAML)")
	errorsPath := flag.String("errors", "", "server errors file (JSON or YAML)")
	preset := flag.String("preset", "", "preset overrides applied to the definitions")
	renderer := flag.String("renderer", "vanilla", "renderer to use (vanilla|tui)")
	format := flag.String("format", "json", "tui output format (json|form|pretty)")
	review := flag.Bool("review", false, "tui: confirm values before submitting")
	title := flag.String("title", "", "form title")
	action := flag.String("action", "", "form action URL")
	output := flag.String("output", "", "output file (stdout if empty)")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "formkit: ", log.LstdFlags)

	req, err := buildRequest(*fields, *openapi, *opID, *values, *errorsPath)
	if err != nil {
		log.Fatalf("Failed to load inputs: %v", err)
	}
	req.Renderer = *renderer
	req.RenderOptions = render.RenderOptions{Title: *title, Action: *action}

	options := []orchestrator.Option{}
	if *verbose {
		options = append(options, orchestrator.WithLogger(logger))
	}
	if *preset != "" {
		transformer, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(*preset)), filepath.Base(*preset))
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		options = append(options, orchestrator.WithSchemaTransformer(transformer))
	}
	if *renderer == "tui" {
		tuiOptions := []tui.Option{
			tui.WithOutputFormat(tui.OutputFormat(strings.ToLower(*format))),
			tui.WithReview(*review),
		}
		if *verbose {
			tuiOptions = append(tuiOptions, tui.WithLogger(logger))
		}
		terminal, err := tui.New(tuiOptions...)
		if err != nil {
			log.Fatalf("Failed to start terminal renderer: %v", err)
		}
		options = append(options, orchestrator.WithRenderer(terminal))
	}

	out, err := orchestrator.New(options...).Generate(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

func buildRequest(fieldsPath, openapiPath, operationID, valuesPath, errorsPath string) (orchestrator.Request, error) {
	var req orchestrator.Request

	switch {
	case fieldsPath != "":
		data, err := os.ReadFile(fieldsPath)
		if err != nil {
			return req, err
		}
		defs, err := fieldsource.ParseDefinitions(data, fieldsPath)
		if err != nil {
			return req, err
		}
		req.Fields = defs
	case openapiPath != "":
		data, err := os.ReadFile(openapiPath)
		if err != nil {
			return req, err
		}
		req.OpenAPI = data
		req.OperationID = operationID
	default:
		return req, fmt.Errorf("one of -fields or -openapi is required")
	}

	if valuesPath != "" {
		data, err := os.ReadFile(valuesPath)
		if err != nil {
			return req, err
		}
		parsed, err := fieldsource.ParseValues(data, valuesPath)
		if err != nil {
			return req, err
		}
		req.Values = parsed
	}

	if errorsPath != "" {
		data, err := os.ReadFile(errorsPath)
		if err != nil {
			return req, err
		}
		parsed, err := fieldsource.ParseErrors(data, errorsPath)
		if err != nil {
			return req, err
		}
		req.Errors = parsed
	}

	return req, nil
}

// Package generate lowers a component description into a self-contained
// bash wrapper: a complete program that parses CLI arguments, validates
// them, stages metadata variables and invokes the component executor.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/greatliontech/wrapgen/internal/bash"
	"github.com/greatliontech/wrapgen/pkg/component"
)

var tracer = otel.Tracer("wrapgen/generate")

// Generator compiles argument models into wrapper scripts.
type Generator struct {
	toolVersion string
}

// New returns a generator stamping artifacts with the given tool version.
func New(toolVersion string) *Generator {
	return &Generator{toolVersion: toolVersion}
}

var headerTmpl = template.Must(template.New("header").Parse(`#!/usr/bin/env bash

set -e

# {{.Name}}{{if .Version}} {{.Version}}{{end}}
#
{{- range .Description}}
# {{.}}
{{- end}}
{{- if .Description}}
#
{{- end}}
# This wrapper script was generated by wrapgen {{.ToolVersion}}.
# Do not edit it directly; it is overwritten on every build.

if [ -z "$TEMP_DIR" ]; then
  TEMP_DIR=/tmp
fi

`))

type headerData struct {
	Name        string
	Version     string
	ToolVersion string
	Description []string
}

// Generate lowers the component's argument model plus the folded
// modifications of the active environment layers into the wrapper text.
// The executor is the command line that finally invokes the component;
// the modification's extra parameters are literally appended to it.
func (g *Generator) Generate(ctx context.Context, comp *component.Component, executor string, mod Modification) ([]byte, error) {
	_, span := tracer.Start(ctx, "generate.wrapper")
	defer span.End()
	span.SetAttributes(attribute.String("component", comp.Name))

	// Model errors abort before a single byte of artifact exists.
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	if comp.Require.Memory != "" {
		if _, err := ParseMemory(comp.Require.Memory); err != nil {
			return nil, fmt.Errorf("component %s: %w", comp.Name, err)
		}
	}
	args := make([]component.Argument, 0, len(comp.Arguments)+len(mod.Inputs))
	args = append(args, comp.Arguments...)
	args = append(args, mod.Inputs...)
	if err := checkImpliedArgs(comp, args); err != nil {
		return nil, err
	}

	var b strings.Builder
	if err := headerTmpl.Execute(&b, headerData{
		Name:        comp.Name,
		Version:     comp.Version,
		ToolVersion: g.toolVersion,
		Description: splitLines(comp.Description),
	}); err != nil {
		return nil, err
	}
	b.WriteString(bash.Prelude)
	b.WriteString("\n")
	b.WriteString(renderMetaInit(comp))
	writeFragments(&b, mod.PreParse)
	b.WriteString(renderHelp(comp, args))
	b.WriteString(renderParserLoop(args, mod.Parsers))
	b.WriteString(renderPositionals(args))
	for i := range args {
		b.WriteString(renderValidation(&args[i]))
	}
	b.WriteString(renderMetaDerive())
	writeFragments(&b, mod.PostParse)
	b.WriteString(renderExports(args))
	b.WriteString(renderInvocation(executor, mod.ExtraParams))

	slog.Debug("generated wrapper", "component", comp.Name, "bytes", b.Len())
	return []byte(b.String()), nil
}

// checkImpliedArgs re-runs the cross-argument checks with the layer-implied
// arguments included, so a layer cannot smuggle in a colliding variable.
func checkImpliedArgs(comp *component.Component, args []component.Argument) error {
	if len(args) == len(comp.Arguments) {
		return nil
	}
	full := *comp
	full.Arguments = args
	return full.Validate()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func writeFragments(b *strings.Builder, frags []string) {
	for _, f := range frags {
		b.WriteString(f)
		if !strings.HasSuffix(f, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

// renderInvocation emits the final command line: the executor with every
// extra parameter literally concatenated.
func renderInvocation(executor string, extraParams []string) string {
	line := executor
	for _, p := range extraParams {
		line += " " + p
	}
	return "# run the component\n" + line + "\n"
}

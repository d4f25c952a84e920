package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/greatliontech/wrapgen/pkg/component"
)

func testComponent() *component.Component {
	min, max := 0.0, 100.0
	return &component.Component{
		Name:        "example",
		Version:     "0.1.0",
		Description: "An example component.",
		Arguments: []component.Argument{
			{Name: "input", Type: component.TypeString, Required: true},
			{Name: "--real_number", Type: component.TypeDouble, Default: []string{"123.456"}},
			{Name: "--whole_number", Alternatives: []string{"-n"}, Type: component.TypeInteger, Min: &min, Max: &max, Default: []string{"10"}},
			{Name: "--truth", Type: component.TypeBooleanTrue},
			{Name: "--falsehood", Type: component.TypeBooleanFalse},
			{Name: "--multiple", Type: component.TypeString, Multiple: true},
		},
		Resources: []component.Resource{{Path: "script.sh"}},
	}
}

func generateText(t *testing.T, comp *component.Component, executor string, mod Modification) string {
	t.Helper()
	out, err := New("0.0.0-test").Generate(context.Background(), comp, executor, mod)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return string(out)
}

func TestGenerateParserCases(t *testing.T) {
	text := generateText(t, testComponent(), `bash "$WRAPGEN_META_RESOURCES_DIR/script.sh"`, Modification{})

	for _, want := range []string{
		"#!/usr/bin/env bash",
		"set -e",
		// flag with separate and attached value forms
		"    --real_number)\n",
		"    --real_number=*)\n",
		// alternatives share one case pattern
		"    --whole_number|-n)\n",
		"    --whole_number=*|-n=*)\n",
		// valueless booleans store fixed values and consume one token
		"    --truth)\n      WRAPGEN_PAR_TRUTH=true\n      shift 1\n",
		"    --falsehood)\n      WRAPGEN_PAR_FALSEHOOD=false\n      shift 1\n",
		// positional consumption
		"WRAPGEN_PAR_INPUT=\"${WRAPGEN_POSITIONAL_ARGS[0]}\"",
		// reserved meta-flags
		"    ---n_proc)\n",
		"    ---memory=*)\n",
		// unknown flags are fatal
		"Unknown flag '$1'",
		// invocation line
		"bash \"$WRAPGEN_META_RESOURCES_DIR/script.sh\"\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated text missing %q", want)
		}
	}
}

func TestGenerateMultipleAccumulator(t *testing.T) {
	text := generateText(t, testComponent(), "true", Modification{})
	// first occurrence assigns, later occurrences append with the separator
	want := "if [ -z ${WRAPGEN_PAR_MULTIPLE+x} ]; then\n" +
		"        WRAPGEN_PAR_MULTIPLE=\"$2\"\n" +
		"      else\n" +
		"        WRAPGEN_PAR_MULTIPLE=\"$WRAPGEN_PAR_MULTIPLE:$2\"\n" +
		"      fi\n"
	if !strings.Contains(text, want) {
		t.Errorf("generated text missing multiple accumulator:\n%s", want)
	}
}

func TestGenerateValidationOrder(t *testing.T) {
	text := generateText(t, testComponent(), "true", Modification{})

	required := strings.Index(text, "'input' is a required argument")
	def := strings.Index(text, "WRAPGEN_PAR_REAL_NUMBER=\"123.456\"")
	rng := strings.Index(text, "'--whole_number' has to be at least 0")
	invoke := strings.Index(text, "# run the component")
	if required < 0 || def < 0 || rng < 0 || invoke < 0 {
		t.Fatalf("missing validation blocks: required=%d default=%d range=%d invoke=%d", required, def, rng, invoke)
	}
	if !(required < def && def < rng && rng < invoke) {
		t.Errorf("validation blocks out of order: required=%d default=%d range=%d invoke=%d", required, def, rng, invoke)
	}
}

func TestGenerateRangeChecks(t *testing.T) {
	text := generateText(t, testComponent(), "true", Modification{})
	for _, want := range []string{
		`if [ "$WG_ELEM" -lt 0 ]; then`,
		`if [ "$WG_ELEM" -gt 100 ]; then`,
		`^[-+]?[0-9]+$`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated text missing %q", want)
		}
	}
}

func TestGenerateMemoryDerivation(t *testing.T) {
	text := generateText(t, testComponent(), "true", Modification{})
	for _, want := range []string{
		`WRAPGEN_META_MEMORY_KB=$(( WG_MEMORY_B / 1024 ))`,
		`WRAPGEN_META_MEMORY_PB=$(( WG_MEMORY_B / 1024 ** 5 ))`,
		`WRAPGEN_META_MEMORY_B=""`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated text missing %q", want)
		}
	}
}

func TestGenerateModificationSlots(t *testing.T) {
	mod := Modification{
		PreParse:    []string{"# layer pre"},
		Parsers:     []string{"    ---custom)\n      shift 1\n      ;;"},
		PostParse:   []string{"# layer post"},
		ExtraParams: []string{`"${WG_LAYER_ARGS[@]}"`},
	}
	text := generateText(t, testComponent(), "true", mod)

	pre := strings.Index(text, "# layer pre")
	parser := strings.Index(text, "---custom)")
	unknown := strings.Index(text, "    --*)")
	post := strings.Index(text, "# layer post")
	validation := strings.Index(text, "'input' is a required argument")
	invoke := strings.Index(text, "true \"${WG_LAYER_ARGS[@]}\"")
	if pre < 0 || parser < 0 || unknown < 0 || post < 0 || validation < 0 || invoke < 0 {
		t.Fatalf("missing fragments: pre=%d parser=%d unknown=%d post=%d validation=%d invoke=%d",
			pre, parser, unknown, post, validation, invoke)
	}
	// preParse before the parser loop, contributed parsers before the
	// unknown-flag guard, core validation before contributed postParse,
	// extra params concatenated onto the invocation line.
	if !(pre < parser && parser < unknown && validation < post && post < invoke) {
		t.Errorf("slots out of order: pre=%d parser=%d unknown=%d validation=%d post=%d invoke=%d",
			pre, parser, unknown, validation, post, invoke)
	}
}

func TestGenerateImpliedInputs(t *testing.T) {
	mod := Modification{
		Inputs: []component.Argument{{Name: "--extra_mount", Type: component.TypeFile, Multiple: true}},
	}
	text := generateText(t, testComponent(), "true", mod)
	if !strings.Contains(text, "--extra_mount)") {
		t.Error("implied input did not receive a parser case")
	}
}

func TestGenerateRejectsBadModel(t *testing.T) {
	comp := testComponent()
	comp.Arguments = append([]component.Argument{{Name: "rest", Type: component.TypeString, Multiple: true}}, comp.Arguments...)
	if _, err := New("t").Generate(context.Background(), comp, "true", Modification{}); err == nil {
		t.Error("multiple positional declared before the last positional should be a configuration error")
	}

	comp = testComponent()
	comp.Require.Memory = "lots"
	if _, err := New("t").Generate(context.Background(), comp, "true", Modification{}); err == nil {
		t.Error("invalid declared memory requirement should abort generation")
	}

	comp = testComponent()
	mod := Modification{Inputs: []component.Argument{{Name: "--input", Type: component.TypeFile}}}
	if _, err := New("t").Generate(context.Background(), comp, "true", mod); err == nil {
		t.Error("implied argument colliding with a component argument should abort generation")
	}
}

func TestGenerateEscapesDefaults(t *testing.T) {
	comp := &component.Component{
		Name: "quoting",
		Arguments: []component.Argument{
			{Name: "--text", Type: component.TypeString, Default: []string{`say "hi" $(whoami) ` + "`id`"}},
		},
		Resources: []component.Resource{{Path: "s.sh"}},
	}
	text := generateText(t, comp, "true", Modification{})
	want := "WRAPGEN_PAR_TEXT=\"say \\\"hi\\\" \\$(whoami) \\`id\\`\""
	if !strings.Contains(text, want) {
		t.Errorf("default not escaped, want %s", want)
	}
}

func TestGenerateHelp(t *testing.T) {
	text := generateText(t, testComponent(), "true", Modification{})
	for _, want := range []string{
		"WgHelp() {",
		`  echo "example 0.1.0"`,
		`  echo "    --whole_number, -n=whole_number"`,
		"type: integer",
		"-h|--help)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

package generate

import (
	"fmt"
	"strings"

	"github.com/greatliontech/wrapgen/pkg/component"
)

// renderHelp emits the WgHelp function answering -h/--help.
func renderHelp(comp *component.Component, args []component.Argument) string {
	var b strings.Builder
	b.WriteString("WgHelp() {\n")
	title := comp.Name
	if comp.Version != "" {
		title += " " + comp.Version
	}
	echoLine(&b, title)
	if comp.Description != "" {
		echoLine(&b, "")
		for _, l := range splitLines(comp.Description) {
			echoLine(&b, l)
		}
	}
	if len(args) > 0 {
		echoLine(&b, "")
		echoLine(&b, "Arguments:")
		for i := range args {
			writeArgHelp(&b, &args[i])
		}
	}
	b.WriteString("}\n\n")
	return b.String()
}

func writeArgHelp(b *strings.Builder, a *component.Argument) {
	echoLine(b, "    "+argSynopsis(a))

	var attrs []string
	attrs = append(attrs, "type: "+typeHelp(a.Type))
	if a.Required {
		attrs = append(attrs, "required")
	}
	if a.Multiple {
		attrs = append(attrs, fmt.Sprintf("multiple values separated by %q", a.Sep()))
	}
	if len(a.Default) > 0 {
		attrs = append(attrs, "default: "+strings.Join(a.Default, a.Sep()))
	}
	if len(a.Choices) > 0 {
		attrs = append(attrs, "choices: [ "+strings.Join(a.Choices, ", ")+" ]")
	}
	if a.Example != "" {
		attrs = append(attrs, "example: "+a.Example)
	}
	echoLine(b, "        "+strings.Join(attrs, ", "))
	for _, l := range splitLines(a.Description) {
		echoLine(b, "        "+l)
	}
	echoLine(b, "")
}

func argSynopsis(a *component.Argument) string {
	spellings := make([]string, 0, len(a.Alternatives)+1)
	for _, form := range a.FlagForms() {
		spellings = append(spellings, form.Flag)
	}
	joined := strings.Join(spellings, ", ")
	switch {
	case a.Kind() == component.KindPositional:
		return joined
	case a.Type.Valueless():
		return joined
	default:
		return joined + "=" + a.PlainName()
	}
}

func typeHelp(t component.Type) string {
	switch t {
	case component.TypeBooleanTrue, component.TypeBooleanFalse:
		return "boolean flag"
	default:
		return t.String()
	}
}

func echoLine(b *strings.Builder, line string) {
	if line == "" {
		b.WriteString("  echo\n")
		return
	}
	fmt.Fprintf(b, "  echo \"%s\"\n", escapeValue(line))
}

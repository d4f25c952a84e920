package generate

import (
	"fmt"
	"strings"

	"github.com/greatliontech/wrapgen/internal/bash"
	"github.com/greatliontech/wrapgen/pkg/component"
)

// renderParserLoop emits the token loop: one case per accepted flag
// spelling, the reserved meta-flag cases, the modification-contributed
// parser fragments, the unknown-flag guards and the positional
// accumulator.
func renderParserLoop(args []component.Argument, extraParsers []string) string {
	var b strings.Builder
	b.WriteString("# parse arguments\n")
	b.WriteString("WRAPGEN_POSITIONAL_ARGS=()\n")
	b.WriteString("while [[ $# -gt 0 ]]; do\n")
	b.WriteString("  case \"$1\" in\n")
	b.WriteString("    -h|--help)\n")
	b.WriteString("      WgHelp\n")
	b.WriteString("      exit\n")
	b.WriteString("      ;;\n")
	b.WriteString(metaParserCases())
	for i := range args {
		b.WriteString(argParserCases(&args[i]))
	}
	for _, f := range extraParsers {
		b.WriteString(f)
		if !strings.HasSuffix(f, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("    --*)\n")
	b.WriteString("      WgError \"Unknown flag '$1'. Use \\\"--help\\\" for more information.\"\n")
	b.WriteString("      exit 1\n")
	b.WriteString("      ;;\n")
	b.WriteString("    -?*)\n")
	b.WriteString("      WgError \"Unknown flag '$1'. Use \\\"--help\\\" for more information.\"\n")
	b.WriteString("      exit 1\n")
	b.WriteString("      ;;\n")
	b.WriteString("    *)\n")
	b.WriteString("      WRAPGEN_POSITIONAL_ARGS+=(\"$1\")\n")
	b.WriteString("      shift 1\n")
	b.WriteString("      ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("done\n\n")
	return b.String()
}

// metaParserCases emits the triple-dash meta-flag cases. They reuse the
// exact token mechanics of user flags but store into the metadata
// namespace; an empty value is meaningful there (it clears the field).
func metaParserCases() string {
	var b strings.Builder
	for _, f := range []struct{ flag, varName string }{
		{"---n_proc", "WRAPGEN_META_N_PROC"},
		{"---memory", "WRAPGEN_META_MEMORY"},
	} {
		fmt.Fprintf(&b, "    %s)\n", f.flag)
		b.WriteString(missingValueGuard(f.flag))
		fmt.Fprintf(&b, "      %s=\"$2\"\n", f.varName)
		b.WriteString("      shift 2\n")
		b.WriteString("      ;;\n")
		fmt.Fprintf(&b, "    %s=*)\n", f.flag)
		fmt.Fprintf(&b, "      %s=$(WgRemoveFlags \"$1\")\n", f.varName)
		b.WriteString("      shift 1\n")
		b.WriteString("      ;;\n")
	}
	return b.String()
}

func missingValueGuard(flag string) string {
	return fmt.Sprintf("      if [ $# -lt 2 ]; then\n"+
		"        WgError \"Missing value for argument '%s'.\"\n"+
		"        exit 1\n"+
		"      fi\n", flag)
}

// argParserCases emits the parser cases for one argument. Positional
// arguments have no cases; they are consumed by declaration order after
// the loop.
func argParserCases(a *component.Argument) string {
	if a.Kind() == component.KindPositional {
		return ""
	}
	flags := make([]string, 0, len(a.Alternatives)+1)
	for _, form := range a.FlagForms() {
		flags = append(flags, form.Flag)
	}
	pattern := strings.Join(flags, "|")
	eqPattern := strings.Join(appendEach(flags, "=*"), "|")
	v := a.VarName()

	var b strings.Builder
	switch {
	case a.Type.Valueless():
		fmt.Fprintf(&b, "    %s)\n", pattern)
		fmt.Fprintf(&b, "      %s=%s\n", v, a.BoolValue())
		b.WriteString("      shift 1\n")
		b.WriteString("      ;;\n")
	case a.Multiple:
		fmt.Fprintf(&b, "    %s)\n", pattern)
		b.WriteString(missingValueGuard(a.Name))
		b.WriteString(appendValue(v, "$2", a.Sep(), "      "))
		b.WriteString("      shift 2\n")
		b.WriteString("      ;;\n")
		fmt.Fprintf(&b, "    %s)\n", eqPattern)
		b.WriteString("      WG_VAL=$(WgRemoveFlags \"$1\")\n")
		b.WriteString(appendValue(v, "$WG_VAL", a.Sep(), "      "))
		b.WriteString("      shift 1\n")
		b.WriteString("      ;;\n")
	default:
		fmt.Fprintf(&b, "    %s)\n", pattern)
		b.WriteString(missingValueGuard(a.Name))
		fmt.Fprintf(&b, "      %s=\"$2\"\n", v)
		b.WriteString("      shift 2\n")
		b.WriteString("      ;;\n")
		fmt.Fprintf(&b, "    %s)\n", eqPattern)
		fmt.Fprintf(&b, "      %s=$(WgRemoveFlags \"$1\")\n", v)
		b.WriteString("      shift 1\n")
		b.WriteString("      ;;\n")
	}
	return b.String()
}

// appendValue emits the accumulator step of a multiple argument: the first
// occurrence assigns, later occurrences append with the separator. A single
// occurrence already containing the separator is stored as-is, which makes
// repeated flags and pre-joined values indistinguishable downstream.
func appendValue(varName, value, sep, indent string) string {
	return fmt.Sprintf("%[4]sif [ -z ${%[1]s+x} ]; then\n"+
		"%[4]s  %[1]s=\"%[2]s\"\n"+
		"%[4]selse\n"+
		"%[4]s  %[1]s=\"$%[1]s%[3]s%[2]s\"\n"+
		"%[4]sfi\n", varName, value, escapeValue(sep), indent)
}

func appendEach(ss []string, suffix string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s + suffix
	}
	return out
}

// renderPositionals assigns accumulated positional tokens to the declared
// positional arguments in order. A trailing multiple positional greedily
// consumes the rest; otherwise any excess token is fatal.
func renderPositionals(args []component.Argument) string {
	var positionals []*component.Argument
	for i := range args {
		if args[i].Kind() == component.KindPositional {
			positionals = append(positionals, &args[i])
		}
	}
	if len(positionals) == 0 {
		return "if [ ${#WRAPGEN_POSITIONAL_ARGS[@]} -gt 0 ]; then\n" +
			"  WgError \"Unexpected positional argument '${WRAPGEN_POSITIONAL_ARGS[0]}'. Use \\\"--help\\\" for more information.\"\n" +
			"  exit 1\n" +
			"fi\n\n"
	}

	var b strings.Builder
	b.WriteString("# assign positional arguments\n")
	greedy := false
	for i, p := range positionals {
		if p.Multiple {
			// Model validation guarantees this is the last positional.
			greedy = true
			fmt.Fprintf(&b, "for (( WG_I=%d; WG_I<${#WRAPGEN_POSITIONAL_ARGS[@]}; WG_I++ )); do\n", i)
			b.WriteString(appendValue(p.VarName(), "${WRAPGEN_POSITIONAL_ARGS[$WG_I]}", p.Sep(), "  "))
			b.WriteString("done\n")
			continue
		}
		fmt.Fprintf(&b, "if [ ${#WRAPGEN_POSITIONAL_ARGS[@]} -ge %d ]; then\n", i+1)
		fmt.Fprintf(&b, "  %s=\"${WRAPGEN_POSITIONAL_ARGS[%d]}\"\n", p.VarName(), i)
		b.WriteString("fi\n")
	}
	if !greedy {
		n := len(positionals)
		fmt.Fprintf(&b, "if [ ${#WRAPGEN_POSITIONAL_ARGS[@]} -gt %d ]; then\n", n)
		fmt.Fprintf(&b, "  WgError \"Unexpected positional argument '${WRAPGEN_POSITIONAL_ARGS[%d]}'. Use \\\"--help\\\" for more information.\"\n", n)
		b.WriteString("  exit 1\n")
		b.WriteString("fi\n")
	}
	b.WriteString("\n")
	return b.String()
}

// escapeValue renders a model-supplied value for embedding in a
// double-quoted literal of the generated program.
func escapeValue(s string) string {
	return bash.Escape(s, bash.EscapeOpts{Quote: true, Backtick: true})
}

package generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/greatliontech/wrapgen/internal/bash"
	"github.com/greatliontech/wrapgen/pkg/component"
)

// renderValidation emits the post-parse block of one argument:
// required-presence check, default application, then per-element type
// coercion, choice membership and numeric range checks. Blocks appear in
// declaration order so the first violation reported is deterministic.
func renderValidation(a *component.Argument) string {
	var b strings.Builder
	v := a.VarName()

	if a.Required {
		fmt.Fprintf(&b, "if [ -z ${%s+x} ]; then\n", v)
		fmt.Fprintf(&b, "  WgError \"'%s' is a required argument. Use \\\"--help\\\" for more information.\"\n", escapeValue(a.Name))
		b.WriteString("  exit 1\n")
		b.WriteString("fi\n")
	}
	if len(a.Default) > 0 && !a.Required {
		fmt.Fprintf(&b, "if [ -z ${%s+x} ]; then\n", v)
		fmt.Fprintf(&b, "  %s=\"%s\"\n", v, escapeValue(strings.Join(a.Default, a.Sep())))
		b.WriteString("fi\n")
	}

	checks := elementChecks(a)
	if checks != "" {
		fmt.Fprintf(&b, "if [ ! -z ${%s+x} ]; then\n", v)
		if a.Multiple {
			fmt.Fprintf(&b, "  IFS=%s read -r -a WG_ELEMS <<< \"$%s\"\n", bash.SingleQuote(a.Sep()), v)
			if a.Type == component.TypeBoolean {
				b.WriteString("  WG_REBUILT=\n  WG_FIRST=1\n")
			}
			b.WriteString("  for WG_ELEM in \"${WG_ELEMS[@]}\"; do\n")
			b.WriteString(indent(checks, "    "))
			if a.Type == component.TypeBoolean {
				// rejoin from the canonical spellings
				fmt.Fprintf(&b, "    if [ $WG_FIRST -eq 1 ]; then\n"+
					"      WG_REBUILT=\"$WG_BOOL\"\n"+
					"      WG_FIRST=0\n"+
					"    else\n"+
					"      WG_REBUILT=\"$WG_REBUILT%s$WG_BOOL\"\n"+
					"    fi\n", escapeValue(a.Sep()))
			}
			b.WriteString("  done\n")
			if a.Type == component.TypeBoolean {
				fmt.Fprintf(&b, "  %s=\"$WG_REBUILT\"\n", v)
			}
		} else {
			fmt.Fprintf(&b, "  WG_ELEM=\"$%s\"\n", v)
			b.WriteString(indent(checks, "  "))
			if a.Type == component.TypeBoolean {
				// store the canonical spelling
				fmt.Fprintf(&b, "  %s=\"$WG_BOOL\"\n", v)
			}
		}
		b.WriteString("fi\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return "# check " + a.PlainName() + "\n" + b.String() + "\n"
}

// elementChecks renders the per-value checks of an argument with $WG_ELEM
// holding the value under test. The switch over the argument type is
// exhaustive; an unknown type is a programming error.
func elementChecks(a *component.Argument) string {
	var b strings.Builder
	name := escapeValue(a.Name)

	switch a.Type {
	case component.TypeInteger:
		fmt.Fprintf(&b, "if ! [[ \"$WG_ELEM\" =~ ^[-+]?[0-9]+$ ]]; then\n")
		fmt.Fprintf(&b, "  WgError \"'%s' has to be an integer, got '$WG_ELEM'.\"\n", name)
		b.WriteString("  exit 1\n")
		b.WriteString("fi\n")
	case component.TypeDouble:
		b.WriteString("if ! [[ \"$WG_ELEM\" =~ ^[-+]?([0-9]+(\\.[0-9]*)?|\\.[0-9]+)([eE][-+]?[0-9]+)?$ ]]; then\n")
		fmt.Fprintf(&b, "  WgError \"'%s' has to be a double, got '$WG_ELEM'.\"\n", name)
		b.WriteString("  exit 1\n")
		b.WriteString("fi\n")
	case component.TypeBoolean:
		b.WriteString("WG_BOOL=$(WgNormalizeBool \"$WG_ELEM\")\n")
		b.WriteString("if [ -z \"$WG_BOOL\" ]; then\n")
		fmt.Fprintf(&b, "  WgError \"'%s' has to be a boolean, got '$WG_ELEM'.\"\n", name)
		b.WriteString("  exit 1\n")
		b.WriteString("fi\n")
	case component.TypeString, component.TypeFile, component.TypeBooleanTrue, component.TypeBooleanFalse:
		// no coercion
	default:
		panic(fmt.Sprintf("unhandled argument type %v", a.Type))
	}

	if len(a.Choices) > 0 {
		quoted := make([]string, len(a.Choices))
		for i, c := range a.Choices {
			quoted[i] = "\"" + escapeValue(c) + "\""
		}
		b.WriteString("case \"$WG_ELEM\" in\n")
		fmt.Fprintf(&b, "  %s) ;;\n", strings.Join(quoted, "|"))
		b.WriteString("  *)\n")
		fmt.Fprintf(&b, "    WgError \"'%s' has to be one of [%s], got '$WG_ELEM'.\"\n",
			name, escapeValue(strings.Join(a.Choices, ", ")))
		b.WriteString("    exit 1\n")
		b.WriteString("    ;;\n")
		b.WriteString("esac\n")
	}

	if a.Min != nil {
		b.WriteString(rangeCheck(a, *a.Min, true))
	}
	if a.Max != nil {
		b.WriteString(rangeCheck(a, *a.Max, false))
	}
	return b.String()
}

func rangeCheck(a *component.Argument, bound float64, isMin bool) string {
	lit := formatNumber(a.Type, bound)
	cond, word := "", ""
	if isMin {
		word = "at least"
		if a.Type == component.TypeInteger {
			cond = fmt.Sprintf("[ \"$WG_ELEM\" -lt %s ]", lit)
		} else {
			cond = fmt.Sprintf("WgFloatLt \"$WG_ELEM\" %s", lit)
		}
	} else {
		word = "at most"
		if a.Type == component.TypeInteger {
			cond = fmt.Sprintf("[ \"$WG_ELEM\" -gt %s ]", lit)
		} else {
			cond = fmt.Sprintf("WgFloatGt \"$WG_ELEM\" %s", lit)
		}
	}
	return fmt.Sprintf("if %s; then\n"+
		"  WgError \"'%s' has to be %s %s, got '$WG_ELEM'.\"\n"+
		"  exit 1\n"+
		"fi\n", cond, escapeValue(a.Name), word, lit)
}

func formatNumber(t component.Type, f float64) string {
	if t == component.TypeInteger {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

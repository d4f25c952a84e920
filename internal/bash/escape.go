// Package bash renders strings into bash source text. Everything the
// generator embeds into a wrapper script passes through here, so these
// functions carry the injection-safety guarantees of every generated
// component.
package bash

import "strings"

// EscapeOpts selects which special characters Escape neutralizes on top of
// backslash and dollar, which are always escaped. The flags must match
// between Escape and Unescape for the round-trip to hold.
type EscapeOpts struct {
	// Quote escapes double quotes, for embedding inside a "..." literal.
	Quote bool
	// Backtick escapes backticks, preventing command substitution.
	Backtick bool
	// Newline rewrites literal newlines to the two-character sequence \n,
	// for values that must stay on one source line. Such values are only
	// safe inside contexts rendered with printf '%b'.
	Newline bool
}

// Escape produces a literal that reproduces s exactly when the generated
// program evaluates it inside a double-quoted string.
func Escape(s string, opts EscapeOpts) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '$':
			b.WriteString(`\$`)
		case '"':
			if opts.Quote {
				b.WriteString(`\"`)
			} else {
				b.WriteRune(r)
			}
		case '`':
			if opts.Backtick {
				b.WriteString("\\`")
			} else {
				b.WriteRune(r)
			}
		case '\n':
			if opts.Newline {
				b.WriteString(`\n`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape inverts Escape for the same option set. Escaped sequences not
// produced by Escape under these options are left untouched.
func Unescape(s string, opts EscapeOpts) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch next := s[i+1]; {
		case next == '\\' || next == '$':
			b.WriteByte(next)
			i++
		case next == '"' && opts.Quote:
			b.WriteByte('"')
			i++
		case next == '`' && opts.Backtick:
			b.WriteByte('`')
			i++
		case next == 'n' && opts.Newline:
			b.WriteByte('\n')
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// SingleQuote wraps s in single quotes, closing and reopening around any
// embedded single quote. The result is safe in any bash context.
func SingleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// DoubleQuote wraps s in double quotes with full escaping applied.
func DoubleQuote(s string) string {
	return `"` + Escape(s, EscapeOpts{Quote: true, Backtick: true}) + `"`
}

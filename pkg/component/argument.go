package component

import (
	"fmt"
	"strings"
)

// Type enumerates the closed set of argument value types. Every switch over
// a Type must carry a default branch that fails loudly so that adding a new
// type surfaces every site that needs updating.
type Type int

const (
	TypeString Type = iota + 1
	TypeInteger
	TypeDouble
	TypeBoolean
	// TypeBooleanTrue and TypeBooleanFalse are valueless boolean flags: the
	// flag's presence stores the fixed value and no token is consumed for it.
	TypeBooleanTrue
	TypeBooleanFalse
	TypeFile
)

// String returns the yaml/spelling form of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeDouble:
		return "double"
	case TypeBoolean:
		return "boolean"
	case TypeBooleanTrue:
		return "boolean_true"
	case TypeBooleanFalse:
		return "boolean_false"
	case TypeFile:
		return "file"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// ParseType parses a type from its yaml spelling.
func ParseType(s string) (Type, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "integer":
		return TypeInteger, nil
	case "double":
		return TypeDouble, nil
	case "boolean":
		return TypeBoolean, nil
	case "boolean_true":
		return TypeBooleanTrue, nil
	case "boolean_false":
		return TypeBooleanFalse, nil
	case "file":
		return TypeFile, nil
	default:
		return 0, fmt.Errorf("unknown argument type: %q", s)
	}
}

// IsNumeric reports whether min/max constraints apply to the type.
func (t Type) IsNumeric() bool {
	return t == TypeInteger || t == TypeDouble
}

// Valueless reports whether a flag of this type consumes no value token.
func (t Type) Valueless() bool {
	return t == TypeBooleanTrue || t == TypeBooleanFalse
}

// Direction says whether a file argument is read or produced by the
// component. It decides container mount modes and ownership fix-up.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// ParseDirection parses a direction from its yaml spelling. The empty
// string means Input.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "input":
		return Input, nil
	case "output":
		return Output, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q", s)
	}
}

// Kind is derived from the number of leading dashes in an argument name.
type Kind int

const (
	KindPositional Kind = iota // no dashes
	KindShort                  // one dash
	KindLong                   // two dashes
)

// FlagForm is one accepted spelling of an argument together with its kind.
type FlagForm struct {
	Flag string
	Kind Kind
}

// Argument describes one CLI parameter of a component. Arguments are built
// once when the component description is loaded and are read-only afterwards.
type Argument struct {
	Name         string
	Alternatives []string `yaml:"alternatives"`
	Description  string
	Example      string
	Type         Type
	Direction    Direction
	Required     bool
	Multiple     bool
	MultipleSep  string `yaml:"multiple_sep"`
	Default      []string
	Choices      []string
	Min          *float64
	Max          *float64
}

// Kind returns the argument kind derived from the name's dash prefix.
func (a *Argument) Kind() Kind {
	return flagKind(a.Name)
}

func flagKind(name string) Kind {
	switch {
	case strings.HasPrefix(name, "--"):
		return KindLong
	case strings.HasPrefix(name, "-"):
		return KindShort
	default:
		return KindPositional
	}
}

// PlainName is the name with leading dashes stripped and internal dashes
// normalized to underscores. It seeds the generated variable identifier.
func (a *Argument) PlainName() string {
	return strings.ReplaceAll(strings.TrimLeft(a.Name, "-"), "-", "_")
}

// VarName is the environment variable the parsed value is stored under in
// the generated program.
func (a *Argument) VarName() string {
	return ParamPrefix + strings.ToUpper(a.PlainName())
}

// FlagForms lists every accepted spelling (name plus alternatives), each
// tagged with its kind.
func (a *Argument) FlagForms() []FlagForm {
	forms := make([]FlagForm, 0, len(a.Alternatives)+1)
	forms = append(forms, FlagForm{Flag: a.Name, Kind: a.Kind()})
	for _, alt := range a.Alternatives {
		forms = append(forms, FlagForm{Flag: alt, Kind: flagKind(alt)})
	}
	return forms
}

// Sep returns the multi-value delimiter, defaulting to ":".
func (a *Argument) Sep() string {
	if a.MultipleSep == "" {
		return DefaultSep
	}
	return a.MultipleSep
}

// BoolValue returns the fixed value stored by a valueless boolean flag.
func (a *Argument) BoolValue() string {
	if a.Type == TypeBooleanFalse {
		return "false"
	}
	return "true"
}

// DefaultSep is the delimiter used by multiple arguments unless overridden.
const DefaultSep = ":"

// Reserved variable namespaces of the generated program. User arguments are
// stored under ParamPrefix; metadata fields under MetaPrefix. Argument names
// may never collide with either.
const (
	ParamPrefix = "WRAPGEN_PAR_"
	MetaPrefix  = "WRAPGEN_META_"
)

// MetaFields are the metadata variable suffixes exported by every generated
// program.
var MetaFields = []string{
	"NAME",
	"RESOURCES_DIR",
	"TEMP_DIR",
	"N_PROC",
	"MEMORY_B",
	"MEMORY_KB",
	"MEMORY_MB",
	"MEMORY_GB",
	"MEMORY_TB",
	"MEMORY_PB",
}

// validate checks the internal consistency of a single argument. Violations
// are configuration errors and abort generation.
func (a *Argument) validate() error {
	if a.Name == "" {
		return fmt.Errorf("argument with empty name")
	}
	if a.MultipleSep != "" && len([]rune(a.MultipleSep)) != 1 {
		return fmt.Errorf("argument %s: multiple_sep must be a single character, got %q", a.Name, a.MultipleSep)
	}
	if a.Kind() == KindPositional && len(a.Alternatives) > 0 {
		return fmt.Errorf("argument %s: positional arguments cannot have alternatives", a.Name)
	}
	if (a.Min != nil || a.Max != nil) && !a.Type.IsNumeric() {
		return fmt.Errorf("argument %s: min/max only apply to integer and double arguments", a.Name)
	}
	if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
		return fmt.Errorf("argument %s: min %v is greater than max %v", a.Name, *a.Min, *a.Max)
	}
	if a.Type.Valueless() && (len(a.Choices) > 0 || a.Multiple) {
		return fmt.Errorf("argument %s: %s flags cannot have choices or multiple values", a.Name, a.Type)
	}
	if len(a.Choices) > 0 {
		for _, def := range a.Default {
			if !contains(a.Choices, def) {
				return fmt.Errorf("argument %s: default %q is not one of the choices %v", a.Name, def, a.Choices)
			}
		}
	}
	if a.Required && len(a.Default) > 0 {
		return fmt.Errorf("argument %s: required arguments cannot have a default", a.Name)
	}
	return nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

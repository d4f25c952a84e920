package component

import (
	"reflect"
	"testing"
)

func TestArgumentKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"input", KindPositional},
		{"-i", KindShort},
		{"--input", KindLong},
		{"--multi-word-flag", KindLong},
	}
	for _, tt := range tests {
		a := Argument{Name: tt.name}
		if got := a.Kind(); got != tt.want {
			t.Errorf("Kind(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlainAndVarName(t *testing.T) {
	tests := []struct {
		name      string
		wantPlain string
		wantVar   string
	}{
		{"input", "input", "WRAPGEN_PAR_INPUT"},
		{"--real-number", "real_number", "WRAPGEN_PAR_REAL_NUMBER"},
		{"-n", "n", "WRAPGEN_PAR_N"},
		{"--camelCase", "camelCase", "WRAPGEN_PAR_CAMELCASE"},
	}
	for _, tt := range tests {
		a := Argument{Name: tt.name}
		if got := a.PlainName(); got != tt.wantPlain {
			t.Errorf("PlainName(%q) = %q, want %q", tt.name, got, tt.wantPlain)
		}
		if got := a.VarName(); got != tt.wantVar {
			t.Errorf("VarName(%q) = %q, want %q", tt.name, got, tt.wantVar)
		}
	}
}

func TestFlagForms(t *testing.T) {
	a := Argument{Name: "--input", Alternatives: []string{"-i", "--in"}}
	got := a.FlagForms()
	want := []FlagForm{
		{Flag: "--input", Kind: KindLong},
		{Flag: "-i", Kind: KindShort},
		{Flag: "--in", Kind: KindLong},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FlagForms = %v, want %v", got, want)
	}
}

func TestSepDefault(t *testing.T) {
	a := Argument{Name: "--m", Multiple: true}
	if a.Sep() != ":" {
		t.Errorf("Sep = %q, want \":\"", a.Sep())
	}
	a.MultipleSep = ";"
	if a.Sep() != ";" {
		t.Errorf("Sep = %q, want \";\"", a.Sep())
	}
}

func TestBoolValue(t *testing.T) {
	if (&Argument{Name: "--t", Type: TypeBooleanTrue}).BoolValue() != "true" {
		t.Error("boolean_true should store true")
	}
	if (&Argument{Name: "--f", Type: TypeBooleanFalse}).BoolValue() != "false" {
		t.Error("boolean_false should store false")
	}
}

func TestParseTypeRoundTrip(t *testing.T) {
	for _, typ := range []Type{TypeString, TypeInteger, TypeDouble, TypeBoolean, TypeBooleanTrue, TypeBooleanFalse, TypeFile} {
		got, err := ParseType(typ.String())
		if err != nil {
			t.Fatalf("ParseType(%q): %v", typ.String(), err)
		}
		if got != typ {
			t.Errorf("ParseType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if _, err := ParseType("decimal"); err == nil {
		t.Error("ParseType should reject unknown types")
	}
}

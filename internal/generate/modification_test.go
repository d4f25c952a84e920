package generate

import (
	"reflect"
	"testing"

	"github.com/greatliontech/wrapgen/pkg/component"
)

func TestModificationIdentity(t *testing.T) {
	m := Modification{
		PreParse:    []string{"pre"},
		Parsers:     []string{"p1", "p2"},
		PostParse:   []string{"post"},
		ExtraParams: []string{"$EXTRA"},
		Inputs:      []component.Argument{{Name: "--mount", Type: component.TypeFile}},
	}
	if got := (Modification{}).Combine(m); !reflect.DeepEqual(got, m) {
		t.Errorf("empty.Combine(m) = %+v, want %+v", got, m)
	}
	if got := m.Combine(Modification{}); !reflect.DeepEqual(got, m) {
		t.Errorf("m.Combine(empty) = %+v, want %+v", got, m)
	}
}

func TestModificationAssociativity(t *testing.T) {
	a := Modification{PreParse: []string{"a"}, Parsers: []string{"pa"}}
	b := Modification{PreParse: []string{"b"}, PostParse: []string{"vb"}}
	c := Modification{Parsers: []string{"pc"}, ExtraParams: []string{"ec"}}

	left := a.Combine(b).Combine(c)
	right := a.Combine(b.Combine(c))
	if !reflect.DeepEqual(left, right) {
		t.Errorf("(a+b)+c = %+v, a+(b+c) = %+v", left, right)
	}
}

func TestModificationOrderPreserved(t *testing.T) {
	a := Modification{Parsers: []string{"first"}}
	b := Modification{Parsers: []string{"second"}}
	got := Fold(a, b)
	want := []string{"first", "second"}
	if !reflect.DeepEqual(got.Parsers, want) {
		t.Errorf("Parsers = %v, want %v", got.Parsers, want)
	}
}

func TestModificationCombineDoesNotMutate(t *testing.T) {
	a := Modification{Parsers: make([]string, 1, 4)}
	a.Parsers[0] = "a"
	b := Modification{Parsers: []string{"b"}}
	c := Modification{Parsers: []string{"c"}}

	ab := a.Combine(b)
	_ = a.Combine(c)
	if !reflect.DeepEqual(ab.Parsers, []string{"a", "b"}) {
		t.Errorf("combining with a third modification changed an earlier result: %v", ab.Parsers)
	}
}

func TestModificationIsZero(t *testing.T) {
	if !(Modification{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (Modification{PreParse: []string{"x"}}).IsZero() {
		t.Error("non-empty modification should not report IsZero")
	}
}

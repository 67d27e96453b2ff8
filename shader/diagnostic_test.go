package shader

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRemapMarksPrologueLabels(t *testing.T) {
	d := &Diagnostic{
		Kind:    KindParse,
		Message: "bad",
		Labels: []Label{
			{Span: Span{Start: 3, End: 8}, Message: "in header"},
			{Span: Span{Start: 110, End: 115}, Message: "in body"},
		},
	}
	got := d.Remap(100)
	if !got.Labels[0].Internal {
		t.Error("label inside prologue not marked internal")
	}
	if got.Labels[0].Span != d.Labels[0].Span {
		t.Error("internal label span was shifted")
	}
	if got.Labels[1].Internal || got.Labels[1].Span != (Span{Start: 10, End: 15}) {
		t.Errorf("body label = %+v", got.Labels[1])
	}
	if d.Labels[1].Span.Start != 110 {
		t.Error("Remap modified the receiver")
	}
}

func TestFormat(t *testing.T) {
	text := "let a = bogus;"
	d := &Diagnostic{
		Kind:    KindParse,
		Message: "undefined identifier",
		Labels: []Label{
			{Span: Span{Start: 8, End: 13}, Message: "not found"},
		},
	}
	want := "undefined identifier:\n    not found:\n        bogus"
	if got := d.Format(text); got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}

	d.Labels[0].Internal = true
	if got := d.Format(text); strings.Contains(got, "bogus") {
		t.Errorf("internal label was sliced: %q", got)
	}

	d.Labels = []Label{{Span: Span{Start: 40, End: 50}, Message: "gone"}}
	if got := d.Format(text); got != "undefined identifier:\n    gone" {
		t.Errorf("out of range label: %q", got)
	}

	plain := &Diagnostic{Kind: KindSemantic, Message: "type mismatch"}
	if got := plain.Format(text); got != "type mismatch" {
		t.Errorf("Format without labels = %q", got)
	}
}

func TestBackendDiagnostic(t *testing.T) {
	if BackendDiagnostic(nil) != nil {
		t.Error("nil error produced a diagnostic")
	}
	d := BackendDiagnostic(errors.New("create render pipeline: out of memory"))
	if d.Kind != KindBackend || !strings.Contains(d.Message, "out of memory") {
		t.Errorf("got %+v", d)
	}
	orig := &Diagnostic{Kind: KindSemantic, Message: "x"}
	if got := BackendDiagnostic(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Error("wrapped diagnostic not unwrapped")
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{KindParse: "parse", KindSemantic: "semantic", KindBackend: "backend", Kind(9): "unknown"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/stardiviner/ob-racket/params"
	"github.com/stardiviner/ob-racket/template"
)

func valueParams(lang string) *params.Set {
	return params.New().
		Put(params.KeyLang, lang).
		Put(params.KeyResultType, ResultTypeValue)
}

func TestBindings_Fragment(t *testing.T) {
	vars := Bindings{
		{Name: "x", Value: int64(1)},
		{Name: "y", Value: []any{int64(2), int64(3)}},
	}

	got := vars.Fragment("")
	want := "(define-values (x y) (values 1 '(2 3)))"
	if got != want {
		t.Errorf("Fragment = %q, want %q", got, want)
	}
}

func TestBindings_FragmentEmpty(t *testing.T) {
	if got := (Bindings{}).Fragment(""); got != "" {
		t.Errorf("empty Fragment = %q, want empty", got)
	}
}

func TestBindings_FragmentStringsAndHlines(t *testing.T) {
	vars := Bindings{
		{Name: "s", Value: "hi"},
		{Name: "tbl", Value: []any{[]any{"a", int64(1)}, "hline", []any{"b", int64(2)}}},
	}

	got := vars.Fragment("")
	want := `(define-values (s tbl) (values "hi" '(("a" 1) null ("b" 2))))`
	if got != want {
		t.Errorf("Fragment = %q, want %q", got, want)
	}
}

func TestAssemble_ValueWrapsBody(t *testing.T) {
	got, warnings, err := Assemble("(+ 1 2)", nil, valueParams("racket"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	lines := strings.Split(got, "\n")
	if lines[0] != "#lang racket" {
		t.Errorf("first line = %q", lines[0])
	}
	last := lines[len(lines)-1]
	if last != "(write (let () (+ 1 2)))" {
		t.Errorf("final line = %q", last)
	}
}

func TestAssemble_OutputKeepsBody(t *testing.T) {
	set := params.New().
		Put(params.KeyLang, "racket").
		Put(params.KeyResultType, ResultTypeOutput)

	got, _, err := Assemble(`(displayln "hi")`, nil, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "#lang racket\n(displayln \"hi\")" {
		t.Errorf("Assemble = %q", got)
	}
}

func TestAssemble_EmptyBodyOmitsWrap(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\t\n"} {
		got, _, err := Assemble(body, nil, valueParams("racket"))
		if err != nil {
			t.Fatalf("unexpected error for body %q: %v", body, err)
		}
		if strings.Contains(got, "(write") {
			t.Errorf("body %q produced a write form:\n%s", body, got)
		}
		if got != "#lang racket" {
			t.Errorf("Assemble(%q) = %q", body, got)
		}
	}
}

func TestAssemble_BindingFragmentOnceInOrder(t *testing.T) {
	vars := Bindings{
		{Name: "x", Value: int64(1)},
		{Name: "y", Value: []any{int64(2), int64(3)}},
	}

	got, _, err := Assemble("(+ x 1)", vars, valueParams("racket"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frag := "(define-values (x y) (values 1 '(2 3)))"
	if strings.Count(got, frag) != 1 {
		t.Errorf("binding fragment not emitted exactly once in:\n%s", got)
	}
	if strings.Count(got, "define-values") != 1 {
		t.Errorf("more than one binding form in:\n%s", got)
	}
}

func TestAssemble_EmptyBindingSetOmitsFragment(t *testing.T) {
	got, _, err := Assemble("(+ 1 2)", nil, valueParams("racket"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "define-values") {
		t.Errorf("binding fragment emitted for empty set:\n%s", got)
	}
}

func TestAssemble_OffListDialectSkipsBindings(t *testing.T) {
	vars := Bindings{{Name: "x", Value: int64(1)}}

	got, warnings, err := Assemble("(+ x 1)", vars, valueParams("typed/racket"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "define-values") {
		t.Errorf("bindings emitted for off-list dialect:\n%s", got)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnBindingUnsupported {
		t.Fatalf("warnings = %v, want one %s", warnings, WarnBindingUnsupported)
	}
	if !strings.Contains(got, "#lang typed/racket") {
		t.Errorf("dialect line missing in:\n%s", got)
	}
	if !strings.Contains(got, "(+ x 1)") {
		t.Errorf("body missing in:\n%s", got)
	}
}

func TestAssemble_PrologueAndEpilogue(t *testing.T) {
	set := valueParams("racket").
		Put(params.KeyPrologue, "(require racket/list)").
		Put(params.KeyEpilogue, template.Seq(template.Text("(displayln "), template.Quote, template.Key("tag"), template.Quote, template.Text(")"))).
		Put("tag", "done")

	got, _, err := Assemble("(+ 1 2)", nil, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(got, "\n")
	if lines[1] != "(require racket/list)" {
		t.Errorf("prologue line = %q", lines[1])
	}
	if lines[len(lines)-1] != `(displayln "done")` {
		t.Errorf("epilogue line = %q", lines[len(lines)-1])
	}
}

func TestAssemble_PrologueMissingKeyAborts(t *testing.T) {
	set := valueParams("racket").
		Put(params.KeyPrologue, template.Seq(template.Key("absent")))

	_, _, err := Assemble("(+ 1 2)", nil, set)
	if !errors.Is(err, template.ErrExpand) {
		t.Fatalf("expected ErrExpand, got %v", err)
	}
}

func TestAssemble_LangRequired(t *testing.T) {
	set := params.New().Put(params.KeyResultType, ResultTypeValue)

	_, _, err := Assemble("(+ 1 2)", nil, set)
	if !errors.Is(err, ErrLangRequired) {
		t.Fatalf("expected ErrLangRequired, got %v", err)
	}
}

func TestAssemble_UnsupportedResultType(t *testing.T) {
	for _, rt := range []string{"", "table", "silent"} {
		set := params.New().Put(params.KeyLang, "racket")
		if rt != "" {
			set.Put(params.KeyResultType, rt)
		}
		_, _, err := Assemble("(+ 1 2)", nil, set)
		var unsupported *UnsupportedResultTypeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("result type %q: expected UnsupportedResultTypeError, got %v", rt, err)
		}
	}
}

func TestDialectSupportsBindings(t *testing.T) {
	cases := map[string]bool{
		"racket":       true,
		"racket/base":  true,
		"typed/racket": false,
		"scribble":     false,
	}
	for lang, want := range cases {
		if got := DialectSupportsBindings(lang); got != want {
			t.Errorf("DialectSupportsBindings(%q) = %v, want %v", lang, got, want)
		}
	}
}

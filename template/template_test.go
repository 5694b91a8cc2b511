package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/stardiviner/ob-racket/params"
)

func TestExpand_LiteralIgnoresParams(t *testing.T) {
	spec := Literal("verbatim text")

	for _, set := range []*params.Set{nil, params.New(), params.New().Put("k", "v")} {
		got, err := Expand(spec, set)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "verbatim text" {
			t.Errorf("Expand = %q, want %q", got, "verbatim text")
		}
	}
}

func TestExpand_NoPlaceholdersIndependentOfParams(t *testing.T) {
	spec := Seq(Text("a"), Newline, Quote, Text("b"), Apostrophe)

	first, err := Expand(spec, params.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Expand(spec, params.New().Put("unrelated", "x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expansion depends on params: %q vs %q", first, second)
	}
	if first != "a\n\"b'" {
		t.Errorf("Expand = %q", first)
	}
}

func TestExpand_Placeholder(t *testing.T) {
	spec := Seq(Text("run "), Key("bin"), Text(" "), Key("file"))
	set := params.New().
		Put("bin", "racket").
		Put("file", "/tmp/a.rkt")

	got, err := Expand(spec, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "run racket /tmp/a.rkt" {
		t.Errorf("Expand = %q", got)
	}
}

func TestExpand_MissingKey(t *testing.T) {
	spec := Seq(Text("before "), Key("absent"))

	got, err := Expand(spec, params.New().Put("present", 1))
	if err == nil {
		t.Fatal("expected error for missing placeholder")
	}
	if got != "" {
		t.Errorf("partial output %q returned alongside error", got)
	}
	if !errors.Is(err, ErrExpand) {
		t.Errorf("expected ErrExpand, got %v", err)
	}
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %T", err)
	}
	if missing.Key != "absent" {
		t.Errorf("Key = %q, want absent", missing.Key)
	}
	if !strings.Contains(err.Error(), "present") {
		t.Errorf("error message %q does not include the parameter set", err)
	}
}

func TestExpand_InvalidToken(t *testing.T) {
	spec := Seq(Token{Kind: Kind(99)})

	_, err := Expand(spec, params.New())
	if !errors.Is(err, ErrExpand) {
		t.Fatalf("expected ErrExpand, got %v", err)
	}
	var invalid *InvalidTokenError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTokenError, got %T", err)
	}
}

func TestExpand_ListValueRendering(t *testing.T) {
	spec := Seq(Key("xs"))
	set := params.New().Put("xs", []any{int64(1), "two", []any{int64(3)}})

	got, err := Expand(spec, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `(1 "two" (3))` {
		t.Errorf("Expand = %q", got)
	}
}

func TestRender_Scalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"path/with space", "path/with space"},
		{int64(7), "7"},
		{3.5, "3.5"},
		{true, "#t"},
		{false, "#f"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := Render(c.in); got != c.want {
			t.Errorf("Render(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

package sanitize

import (
	"reflect"
	"testing"
)

func TestString_DecodesEntitiesAndCollapsesWhitespace(t *testing.T) {
	got := String("Fullmetal &amp; Alchemist\n\t  &quot;Brotherhood&quot;", "")
	want := `Fullmetal & Alchemist "Brotherhood"`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestString_UnknownEntityPassesThrough(t *testing.T) {
	got := String("a &copy; b", "")
	if got != "a &copy; b" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestString_FallbackOnEmpty(t *testing.T) {
	cases := []interface{}{nil, "", "   ", "\t\n"}
	for _, input := range cases {
		if got := String(input, "N/A"); got != "N/A" {
			t.Fatalf("input %#v: expected fallback, got %q", input, got)
		}
	}
}

func TestString_Idempotent(t *testing.T) {
	inputs := []string{
		"hello   world",
		"&amp;&lt;&gt;",
		"  spaced  out  ",
		"already clean",
		"&nbsp;a&nbsp;",
	}
	for _, input := range inputs {
		once := String(input, "")
		twice := String(once, "")
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestString_StringifiesScalars(t *testing.T) {
	if got := String(42.0, ""); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
	if got := String(true, ""); got != "true" {
		t.Fatalf("expected true, got %q", got)
	}
}

func TestURL(t *testing.T) {
	if got := URL("https://example.com/a.png"); got == nil || *got != "https://example.com/a.png" {
		t.Fatalf("https URL should pass through, got %v", got)
	}
	if got := URL("  http://example.com  "); got == nil || *got != "http://example.com" {
		t.Fatalf("trimmed http URL should pass through, got %v", got)
	}
	for _, input := range []interface{}{"ftp://x", "/relative/path", "javascript:alert(1)", 17, nil, ""} {
		if got := URL(input); got != nil {
			t.Fatalf("input %#v should be rejected, got %q", input, *got)
		}
	}
}

func TestInteger(t *testing.T) {
	cases := []struct {
		input    interface{}
		fallback int
		want     int
	}{
		{nil, 7, 7},
		{"12", 0, 12},
		{"12 episodes", 0, 12},
		{"abc", 3, 3},
		{14.0, 0, 14},
		{-2, 0, -2},
		{"", 9, 9},
	}
	for _, tc := range cases {
		if got := Integer(tc.input, tc.fallback); got != tc.want {
			t.Fatalf("Integer(%#v, %d) = %d, want %d", tc.input, tc.fallback, got, tc.want)
		}
	}
}

func TestList_AlwaysReturnsList(t *testing.T) {
	if got := List(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil should become empty list, got %#v", got)
	}
	if got := List("en-US"); len(got) != 1 || got[0] != "en-US" {
		t.Fatalf("scalar should be wrapped, got %#v", got)
	}
	arr := []interface{}{"a", "b"}
	if got := List(arr); !reflect.DeepEqual(got, arr) {
		t.Fatalf("array should pass through, got %#v", got)
	}
	if got := List(false); len(got) != 0 {
		t.Fatalf("falsy scalar should become empty list, got %#v", got)
	}
	if got := List(3.5); len(got) != 1 {
		t.Fatalf("number should be wrapped, got %#v", got)
	}
}

func TestStringList(t *testing.T) {
	got := StringList([]interface{}{"ja-JP", "", "en-US"})
	if !reflect.DeepEqual(got, []string{"ja-JP", "en-US"}) {
		t.Fatalf("unexpected result: %#v", got)
	}
	if got := StringList(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil should become empty string list, got %#v", got)
	}
	if got := StringList("PG-13"); !reflect.DeepEqual(got, []string{"PG-13"}) {
		t.Fatalf("scalar should be wrapped, got %#v", got)
	}
}

func TestBestImage_PicksLastVariant(t *testing.T) {
	images := map[string]interface{}{
		"poster_wide": []interface{}{
			[]interface{}{
				map[string]interface{}{"source": "https://img.example/low.jpg"},
				map[string]interface{}{"source": "https://img.example/high.jpg"},
			},
		},
	}
	got := BestImage(images, "poster_wide")
	if got == nil || *got != "https://img.example/high.jpg" {
		t.Fatalf("expected highest-resolution variant, got %v", got)
	}
}

func TestBestImage_SingleNestingAndMissing(t *testing.T) {
	images := map[string]interface{}{
		"poster_tall": []interface{}{
			map[string]interface{}{"source": "https://img.example/only.jpg"},
		},
	}
	if got := BestImage(images, "poster_tall"); got == nil || *got != "https://img.example/only.jpg" {
		t.Fatalf("single-nested variants should work, got %v", got)
	}
	if got := BestImage(images, "poster_wide"); got != nil {
		t.Fatalf("missing role should yield nil, got %q", *got)
	}
	if got := BestImage(nil, "poster_wide"); got != nil {
		t.Fatalf("nil collection should yield nil, got %q", *got)
	}
}

func TestBestImage_RejectsRelativeSource(t *testing.T) {
	images := map[string]interface{}{
		"poster_wide": []interface{}{
			map[string]interface{}{"source": "/keyart/relative.jpg"},
		},
	}
	if got := BestImage(images, "poster_wide"); got != nil {
		t.Fatalf("relative source should be rejected, got %q", *got)
	}
}

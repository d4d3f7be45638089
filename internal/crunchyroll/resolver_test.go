package crunchyroll

import (
	"math"
	"testing"
)

func TestClassify_DirectSeriesID(t *testing.T) {
	kind, id := classify("GY9PJ5KWR")
	if kind != kindDirectID || id != "GY9PJ5KWR" {
		t.Fatalf("expected direct ID, got kind=%d id=%q", kind, id)
	}
}

func TestClassify_CanonicalURL(t *testing.T) {
	kind, id := classify("https://www.crunchyroll.com/series/GY9PJ5KWR/naruto")
	if kind != kindCanonicalURL || id != "GY9PJ5KWR" {
		t.Fatalf("expected URL extraction, got kind=%d id=%q", kind, id)
	}
}

func TestClassify_URLWithoutSeriesIDDegradesToFreeText(t *testing.T) {
	kind, id := classify("https://www.crunchyroll.com/videos/popular")
	if kind != kindFreeText || id != "" {
		t.Fatalf("expected free text, got kind=%d id=%q", kind, id)
	}
}

func TestClassify_NumericStringIsNotASeriesID(t *testing.T) {
	// Crunchyroll IDs are 9-char alphanumeric codes; bare numbers are
	// search terms.
	kind, _ := classify("123456789")
	if kind != kindDirectID {
		// 123456789 is 9 chars of [A-Z0-9], so it is a valid ID shape.
		t.Fatalf("nine digit string matches the ID shape, got kind=%d", kind)
	}
	kind, _ = classify("21")
	if kind != kindFreeText {
		t.Fatalf("short numeric string should be free text, got kind=%d", kind)
	}
}

func TestClassify_LowercaseCodeIsFreeText(t *testing.T) {
	kind, _ := classify("gy9pj5kwr")
	if kind != kindFreeText {
		t.Fatalf("lowercase code should be free text, got kind=%d", kind)
	}
}

func TestLevenshteinRatio_Identity(t *testing.T) {
	for _, s := range []string{"one piece", "a", "jujutsu kaisen"} {
		if got := levenshteinRatio(s, s); got != 1.0 {
			t.Fatalf("score(%q, %q) = %f, want 1.0", s, s, got)
		}
	}
}

func TestLevenshteinRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"one piece", "one punch man"},
		{"naruto", "boruto"},
		{"", "x"},
		{"abc", "zyx"},
	}
	for _, pair := range pairs {
		ab := levenshteinRatio(pair[0], pair[1])
		ba := levenshteinRatio(pair[1], pair[0])
		if math.Abs(ab-ba) > 1e-12 {
			t.Fatalf("score not symmetric for %q/%q: %f vs %f", pair[0], pair[1], ab, ba)
		}
	}
}

func TestLevenshteinRatio_EmptyStrings(t *testing.T) {
	if got := levenshteinRatio("", ""); got != 1.0 {
		t.Fatalf("both empty should score 1.0, got %f", got)
	}
	if got := levenshteinRatio("", "naruto"); got != 0.0 {
		t.Fatalf("one empty should score 0.0, got %f", got)
	}
}

func TestLevenshteinRatio_OnePieceBeatsOnePunchMan(t *testing.T) {
	query := "one piece"
	exact := levenshteinRatio(query, "one piece")
	other := levenshteinRatio(query, "one punch man")
	if exact != 1.0 {
		t.Fatalf("exact match should score 1.0, got %f", exact)
	}
	if other >= exact {
		t.Fatalf("near match should score below exact: %f >= %f", other, exact)
	}
}

func TestLevenshteinRatio_Range(t *testing.T) {
	pairs := [][2]string{
		{"abc", "xyz"},
		{"short", "a much longer title entirely"},
		{"same", "same"},
	}
	for _, pair := range pairs {
		got := levenshteinRatio(pair[0], pair[1])
		if got < 0.0 || got > 1.0 {
			t.Fatalf("score out of range for %q/%q: %f", pair[0], pair[1], got)
		}
	}
}

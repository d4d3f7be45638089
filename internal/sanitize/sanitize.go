// Package sanitize coerces loosely-typed upstream JSON values into the
// stable output schema. It is the only place raw upstream shapes are
// touched; everything downstream works with typed fields.
package sanitize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var htmlEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#39;":  "'",
	"&nbsp;": " ",
}

var (
	entityPattern     = regexp.MustCompile(`(?i)&[a-z0-9#]+;`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// String decodes the fixed HTML entity table, collapses whitespace runs to
// single spaces and trims. Non-string scalars are stringified first; nil or
// an empty result yields the fallback.
func String(value interface{}, fallback string) string {
	if value == nil {
		return fallback
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case bool:
		if !v {
			return fallback
		}
		str = "true"
	default:
		str = fmt.Sprint(v)
	}
	if str == "" {
		return fallback
	}

	str = entityPattern.ReplaceAllStringFunc(str, func(entity string) string {
		if decoded, ok := htmlEntities[strings.ToLower(entity)]; ok {
			return decoded
		}
		return entity
	})
	str = whitespacePattern.ReplaceAllString(str, " ")
	str = strings.TrimSpace(str)

	if str == "" {
		return fallback
	}
	return str
}

// URL passes through absolute http(s) URLs and turns everything else,
// including non-strings, into nil.
func URL(value interface{}) *string {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	str = strings.TrimSpace(str)
	if strings.HasPrefix(str, "http://") || strings.HasPrefix(str, "https://") {
		return &str
	}
	return nil
}

// Integer parses scalars into an int; anything non-numeric yields the
// fallback.
func Integer(value interface{}, fallback int) int {
	switch v := value.(type) {
	case nil:
		return fallback
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		// Leading digits only, like a parseInt.
		i := 0
		if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
			i = 1
		}
		for i < len(v) && v[i] >= '0' && v[i] <= '9' {
			i++
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(v[:i], "+")); err == nil {
			return n
		}
		return fallback
	default:
		return fallback
	}
}

// List always returns a list: arrays pass through, a bare scalar is wrapped,
// nil/false/empty-string input becomes an empty list.
func List(value interface{}) []interface{} {
	switch v := value.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		if v == nil {
			return []interface{}{}
		}
		return v
	case string:
		if v == "" {
			return []interface{}{}
		}
		return []interface{}{v}
	case bool:
		if !v {
			return []interface{}{}
		}
		return []interface{}{v}
	case float64:
		if v == 0 {
			return []interface{}{}
		}
		return []interface{}{v}
	default:
		return []interface{}{v}
	}
}

// StringList is List with every element stringified; empty elements are
// dropped.
func StringList(value interface{}) []string {
	if strs, ok := value.([]string); ok {
		if strs == nil {
			return []string{}
		}
		return strs
	}

	items := List(value)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := String(item, ""); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BestImage picks the highest-resolution variant for the given role from a
// possibly doubly-nested variant collection. Variants arrive ordered by
// ascending resolution, so the last entry wins.
func BestImage(images map[string]interface{}, role string) *string {
	if images == nil {
		return nil
	}

	variants, ok := images[role].([]interface{})
	if !ok {
		return nil
	}

	flat := make([]interface{}, 0, len(variants))
	for _, v := range variants {
		if inner, ok := v.([]interface{}); ok {
			flat = append(flat, inner...)
		} else {
			flat = append(flat, v)
		}
	}
	if len(flat) == 0 {
		return nil
	}

	last, ok := flat[len(flat)-1].(map[string]interface{})
	if !ok {
		return nil
	}
	return URL(last["source"])
}

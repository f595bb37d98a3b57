package util

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNonJSON is returned when no JSON value can be recovered from model text.
var ErrNonJSON = errors.New("model returned non-JSON response")

// ExtractJSON recovers a JSON value from free-form model output. It tries, in
// order: the whole text, the text with a markdown code fence removed, the
// widest [...] span and the widest {...} span.
func ExtractJSON(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	if v, ok := decode(trimmed); ok {
		return v, nil
	}

	unfenced := stripFence(trimmed)
	if v, ok := decode(unfenced); ok {
		return v, nil
	}

	if v, ok := decode(span(unfenced, "[", "]")); ok {
		return v, nil
	}
	if v, ok := decode(span(unfenced, "{", "}")); ok {
		return v, nil
	}

	return nil, ErrNonJSON
}

func decode(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

func stripFence(s string) string {
	out := s
	if strings.HasPrefix(out, "```") {
		out = out[3:]
		if len(out) >= 4 && strings.EqualFold(out[:4], "json") {
			out = out[4:]
		}
	}
	out = strings.TrimSpace(out)
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}

func span(s, open, close string) string {
	start := strings.Index(s, open)
	end := strings.LastIndex(s, close)
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// AsString coerces a decoded JSON value into a string. nil becomes "".
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// AsStringSlice coerces a decoded JSON array into strings. Non-arrays yield nil.
func AsStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, AsString(item))
	}
	return out
}

// AsMap returns v as a JSON object, or an empty map.
func AsMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// SanitizeJSON applies StripUnsafe to every string inside a decoded JSON value.
func SanitizeJSON(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return StripUnsafe(t)
	case float64, bool, json.Number:
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = SanitizeJSON(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = SanitizeJSON(item)
		}
		return out
	default:
		return AsString(t)
	}
}

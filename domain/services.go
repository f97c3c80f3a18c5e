package domain

import (
	"encoding/json"
	"strings"
)

const serviceSeparator = ","

// ServiceReference identify a service bundle in form of <folder>/<name>
type ServiceReference = string

// SanitizeServices normalize the services input into a list of trimmed non-empty references.
// The input can be a single path, a json array encoded string or a list.
// It never panics, an empty list returned if input cannot be recognized.
func SanitizeServices(raw interface{}) (out []ServiceReference) {
	defer func() {
		if r := recover(); r != nil {
			out = []ServiceReference{}
		}
	}()

	out = []ServiceReference{}

	switch v := raw.(type) {
	case nil:
		return
	case string:
		return appendServices(out, parseServiceString(v))
	case []string:
		for _, s := range v {
			out = appendService(out, s)
		}
		return
	case []interface{}:
		return appendServices(out, v)
	}

	return
}

// JoinServices sanitize the input and join into comma separated uri list
func JoinServices(raw interface{}) string {
	return strings.Join(SanitizeServices(raw), serviceSeparator)
}

func parseServiceString(s string) []interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	// only the raw input enclosed by brackets is an array, "  [...]" is a single path
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var items []interface{}
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return items
		}
	}

	return []interface{}{trimmed}
}

func appendServices(out []ServiceReference, items []interface{}) []ServiceReference {
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = appendService(out, s)
		}
	}
	return out
}

func appendService(out []ServiceReference, s string) []ServiceReference {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	return append(out, s)
}

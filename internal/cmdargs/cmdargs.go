// Package cmdargs parses marker-prefixed command-line tokens into a flat
// string map: "-key value" pairs and bare "-flag" switches.
package cmdargs

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

// DefaultMarker prefixes keys unless configured otherwise.
const DefaultMarker = "-"

// Args is the parsed key/value set. Flags map to the empty string.
type Args map[string]string

// Parse reads tokens of the form "<marker>key [value]". A token that follows a
// key and does not start with the marker is that key's value; negative
// numbers count as values. Any other token is an argument error. A repeated
// key keeps its last value.
func Parse(tokens []string, marker string) (Args, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	out := make(Args)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !isKey(tok, marker) {
			return nil, errors.ArgumentError(fmt.Sprintf("unexpected argument %q: expected %skey", tok, marker)).
				WithContext("position", i).
				Build()
		}
		key := tok[len(marker):]
		value := ""
		if i+1 < len(tokens) && !isKey(tokens[i+1], marker) {
			value = tokens[i+1]
			i++
		}
		out[key] = value
	}
	return out, nil
}

func isKey(tok, marker string) bool {
	if !strings.HasPrefix(tok, marker) || len(tok) == len(marker) {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return true
}

// Has reports whether key was given, with or without a value.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Get returns the value of key, or fallback when the key is absent or has no value.
func (a Args) Get(key, fallback string) string {
	if v, ok := a[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Int returns the integer value of key, or fallback when it is absent.
func (a Args) Int(key string, fallback int) (int, error) {
	v := a.Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, errors.ArgumentError(fmt.Sprintf("argument %s: %q is not an integer", key, v)).Build()
	}
	return n, nil
}

// Keys returns the parsed keys in sorted order.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

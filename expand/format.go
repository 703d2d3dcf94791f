// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"fmt"
	"strings"
)

// Fields is a named-field record substituted into a pattern by Format.
type Fields map[string]any

// Format substitutes named fields into pattern.
//
// A placeholder is an identifier in braces, optionally followed by a colon
// and an fmt verb: "{name}" formats with %v, "{index:%02d}" with %02d. Braces
// that do not enclose a well-formed placeholder are copied through, so C
// blocks such as "if (yes) {" need no escaping. A placeholder naming a field
// that is not in fields is rendered as "%!name(MISSING)", like fmt does for
// missing operands.
func Format(pattern string, fields Fields) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); {
		if pattern[i] == '{' {
			if name, verb, n, ok := placeholder(pattern[i:]); ok {
				v, found := fields[name]
				switch {
				case !found:
					b.WriteString("%!" + name + "(MISSING)")
				case verb == "":
					fmt.Fprint(&b, v)
				default:
					fmt.Fprintf(&b, verb, v)
				}
				i += n
				continue
			}
		}
		b.WriteByte(pattern[i])
		i++
	}
	return b.String()
}

// placeholder parses a placeholder at the start of s, which begins with '{'.
// It returns the field name, the fmt verb (possibly empty) and the number of
// bytes consumed.
func placeholder(s string) (name, verb string, n int, ok bool) {
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return "", "", 0, false
	}
	name, verb, _ = strings.Cut(s[1:end], ":")
	if !isIdent(name) {
		return "", "", 0, false
	}
	if verb != "" && !strings.HasPrefix(verb, "%") {
		return "", "", 0, false
	}
	return name, verb, end + 1, true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Chain joins sub-expressions into one multi-line expression, placing op at
// the end of every line but the last. Term order is preserved exactly.
func Chain(terms []string, op string) string {
	return strings.Join(terms, " "+op+"\n")
}

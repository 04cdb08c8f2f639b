// Package escape implements the string escaping rules shared by the
// canonical JSON renderer and the wire codec (spec §6): escape is
// applied whenever a string crosses a process boundary or is rendered
// for equality comparison, and unescape is its exact inverse.
package escape

import "strings"

// replacements lists every character §6 requires escaping, applied in
// order so backslash is always handled first.
var replacements = []struct {
	from string
	to   string
}{
	{"\\", "\\\\"},
	{"\"", "\\\""},
	{"'", "\\'"},
	{"\n", "\\n"},
	{"\r", "\\r"},
	{"\t", "\\t"},
	{"\b", "\\b"},
	{"\f", "\\f"},
	{" ", "\\u2028"},
	{" ", "\\u2029"},
}

var unescapeReplacements = reversed(replacements)

func reversed(in []struct{ from, to string }) []struct{ from, to string } {
	out := make([]struct{ from, to string }, len(in))
	for i, r := range in {
		out[len(in)-1-i] = struct{ from, to string }{from: r.to, to: r.from}
	}
	return out
}

// String escapes s per §6: backslash, double quote, single quote,
// newline, carriage return, tab, backspace, form feed, and the Unicode
// line/paragraph separators.
func String(s string) string {
	r := make([]string, 0, len(replacements)*2)
	for _, rep := range replacements {
		r = append(r, rep.from, rep.to)
	}
	return strings.NewReplacer(r...).Replace(s)
}

// Unstring is the exact inverse of String: for all legal inputs,
// Unstring(String(s)) == s.
func Unstring(s string) string {
	r := make([]string, 0, len(unescapeReplacements)*2)
	for _, rep := range unescapeReplacements {
		r = append(r, rep.from, rep.to)
	}
	return strings.NewReplacer(r...).Replace(s)
}

package identity

import (
	"regexp"
	"sort"
	"strings"
)

// nonAlnumPattern matches runs of characters that separate name tokens.
var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// normalize lowercases a name and collapses punctuation and whitespace into
// single spaces, so "Smith, John Q." and "john q smith" tokenize alike.
func normalize(s string) string {
	lowered := strings.ToLower(s)
	cleaned := nonAlnumPattern.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(cleaned)
}

// tokens returns the normalized name split into its parts.
func tokens(s string) []string {
	norm := normalize(s)
	if norm == "" {
		return nil
	}
	return strings.Fields(norm)
}

// sortedKey joins a name's tokens in lexical order, giving a representation
// that is stable under token reordering ("smith john" == "john smith").
func sortedKey(toks []string) string {
	if len(toks) == 0 {
		return ""
	}
	dup := make([]string, len(toks))
	copy(dup, toks)
	sort.Strings(dup)
	return strings.Join(dup, " ")
}

// looksLikeEmail reports whether the candidate string is plausibly an email
// address rather than a person name.
func looksLikeEmail(s string) bool {
	trimmed := strings.TrimSpace(s)
	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return false
	}
	return !strings.ContainsAny(trimmed, " \t")
}

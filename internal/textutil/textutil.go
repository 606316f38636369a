// Package textutil holds the small string heuristics shared by the corpus
// indexer, the retrieval ranker and the text cleanup pipelines.
//
// All length arithmetic is rune-based: the portal corpus is mostly Cyrillic
// and byte offsets would split characters.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	nonWordRe  = regexp.MustCompile(`[^a-zа-я0-9\s]`)
	cyrShoutRe = regexp.MustCompile(`[А-ЯЁ]{10,}`)
	cyrLowerRe = regexp.MustCompile(`[а-яё]`)
)

// CollapseSpace collapses all whitespace runs to single spaces and trims.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FirstRunes returns the first min(len, n) runes of s.
func FirstRunes(s string, n int) string {
	return TruncateRunes(s, n)
}

// Tokenize lowercases s, strips everything outside Latin/Cyrillic letters
// and digits, and returns the deduplicated tokens in first-seen order.
func Tokenize(s string) []string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(s), " ")
	fields := strings.Fields(cleaned)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// MostlyUppercase reports whether a line looks like a template or guard
// line: more than 70% of its characters are uppercase letters, or it is a
// long run of uppercase Cyrillic with no lowercase anywhere.
func MostlyUppercase(line string) bool {
	if line == "" {
		return false
	}
	upper, total := 0, 0
	for _, r := range line {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total > 0 && float64(upper) > float64(total)*0.7 {
		return true
	}
	return cyrShoutRe.MatchString(line) && !cyrLowerRe.MatchString(line)
}

// AllUppercaseLetters reports whether s consists solely of uppercase
// letters and whitespace (and contains at least one letter).
func AllUppercaseLetters(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
		case unicode.IsUpper(r):
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}

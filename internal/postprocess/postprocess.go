// Package postprocess cleans raw generation output before it reaches the
// user.
//
// Small instruction-tuned models echo prompts, relabel turns, drift into
// training-set exercises and loop. Clean strips all of that with ordered,
// idempotent stages; Sanitize then decides whether what is left is
// presentable at all. Both are pure string transforms, so they are safe to
// re-run over their own output.
package postprocess

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/textutil"
)

const (
	// maxGeneratedRunes caps a generated reply.
	maxGeneratedRunes = 500
	// minBoundaryRunes is the earliest point a sentence boundary may cut a
	// long reply.
	minBoundaryRunes = 200
	// minSanitizedRunes rejects replies too short to mean anything.
	minSanitizedRunes = 10
	// dupWordThreshold rejects looping output: with more than dupWordCount
	// words, fewer than 30% unique words means a loop.
	dupWordThreshold = 0.3
	dupWordCount     = 20
)

// roleMarkers are turn labels models prepend when they re-enact the
// conversation. Ordered; later markers are stripped from what earlier ones
// left.
var roleMarkers = []string{
	"Ответ:", "Answer:", "Контекст:", "Context:",
	"Вопрос:", "Question:", "USER:", "ASSISTANT:",
	"В:", "О:", "Q:", "A:",
}

var (
	questionLineRe = regexp.MustCompile(`(?i)Вопрос:\s*[^\n]+`)
	outputLineRe   = regexp.MustCompile(`(?i)Output:\s*[^\n]+`)
	citationRe     = regexp.MustCompile(`\[\d+\.\s*[^\]]+\]`)
	exerciseRe     = regexp.MustCompile(`Выведите на экран[^.]*\.?`)

	templateLineRe = regexp.MustCompile(`(?i)^(Output|Вопрос|Question|Выведите|Количество|Предложение):`)
	leakageRe      = regexp.MustCompile(`стать|статья|предложени|строк|количеств|вывед|экран`)

	urlRe       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	handleRe    = regexp.MustCompile(`[@#][\wа-яА-ЯёЁ]+`)
	bracketedRe = regexp.MustCompile(`[(\[][^)\]]*http[^)\]]*[)\]]`)
	entityRe    = regexp.MustCompile(`&[a-z]+;|&#\d+;`)
	gibberishRe = regexp.MustCompile(`\S{30,}`)
	letterRunRe = regexp.MustCompile(`[а-яА-ЯёЁ]{3,}|[a-zA-Z]{3,}`)
)

// Clean normalizes raw model output. prompt and question are the exact
// strings sent to the engine, used to strip echoes. Clean never rejects; it
// returns its best effort and leaves the accept decision to Sanitize.
func Clean(generated, prompt, question string) string {
	text := strings.TrimSpace(generated)

	text = stripPromptEcho(text, prompt)
	text = stripRoleMarkers(text)
	text = stripQuestionEcho(text, question)
	text = truncateLong(text)

	text = questionLineRe.ReplaceAllString(text, "")
	text = outputLineRe.ReplaceAllString(text, "")
	text = citationRe.ReplaceAllString(text, "")
	text = exerciseRe.ReplaceAllString(text, "")

	text = filterLines(text)
	text = firstSentenceCut(text)

	return strings.TrimSpace(text)
}

// stripPromptEcho drops everything up to and including an echoed prompt.
func stripPromptEcho(text, prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return text
	}
	if idx := strings.Index(text, prompt); idx >= 0 {
		return strings.TrimSpace(text[idx+len(prompt):])
	}
	return text
}

// stripRoleMarkers keeps only the text after the last role label. Models
// that replay the dialogue put the actual reply after the final "Ответ:".
func stripRoleMarkers(text string) string {
	for _, marker := range roleMarkers {
		if idx := strings.LastIndex(text, marker); idx >= 0 {
			tail := strings.TrimSpace(text[idx+len(marker):])
			if tail != "" {
				text = tail
			}
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, marker))
	}
	return text
}

// stripQuestionEcho removes the user's question when the reply opens by
// repeating it, compared case-insensitively rune by rune.
func stripQuestionEcho(text, question string) string {
	q := []rune(strings.TrimSpace(question))
	tr := []rune(text)
	if len(q) == 0 || len(tr) < len(q) {
		return text
	}
	for i, r := range q {
		if unicode.ToLower(tr[i]) != unicode.ToLower(r) {
			return text
		}
	}
	rest := strings.TrimLeft(string(tr[len(q):]), " \t?!.,:-")
	return strings.TrimSpace(rest)
}

// truncateLong caps overlong output, preferring the first sentence boundary
// past minBoundaryRunes over a hard cut.
func truncateLong(text string) string {
	runes := []rune(text)
	if len(runes) <= maxGeneratedRunes {
		return text
	}
	for i := minBoundaryRunes; i < maxGeneratedRunes; i++ {
		switch runes[i] {
		case '.', '!', '?', '\n':
			return strings.TrimSpace(string(runes[:i+1]))
		}
	}
	return string(runes[:maxGeneratedRunes]) + "..."
}

// filterLines drops template, leakage and duplicated lines, then folds the
// remainder into one paragraph. The joined paragraph goes through the line
// rules once more: joining short lines can produce a line the rules reject,
// and Clean must be stable over its own output.
func filterLines(text string) string {
	return filterOnce(filterOnce(text))
}

func filterOnce(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < 5 {
			continue
		}
		if textutil.MostlyUppercase(line) {
			continue
		}
		if templateLineRe.MatchString(line) {
			continue
		}
		// Long lines full of exercise vocabulary are training-set leakage,
		// not answers about the portal.
		if n > 50 && leakageRe.MatchString(strings.ToLower(line)) {
			continue
		}
		if len(kept) > 0 && sameLead(kept[len(kept)-1], line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

// sameLead reports whether two lines start the same way, comparing their
// first 20 runes.
func sameLead(a, b string) bool {
	const lead = 20
	pa := textutil.FirstRunes(a, lead)
	pb := textutil.FirstRunes(b, lead)
	return strings.Contains(strings.ToLower(pa), strings.ToLower(pb)) ||
		strings.Contains(strings.ToLower(pb), strings.ToLower(pa))
}

// firstSentenceCut keeps only the first sentence when a lot of text
// follows it. Everything after the first sentence of a rambling reply is
// usually drift.
func firstSentenceCut(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if i < minSanitizedRunes {
			continue
		}
		if r == '.' || r == '!' || r == '?' {
			if len(runes)-i > 30 {
				return string(runes[:i+1])
			}
			return text
		}
	}
	return text
}

// Sanitize is the final gate before a generated reply reaches the user.
// It strips link and markup debris and reports whether the remainder is
// presentable; on false the caller shows a localized fallback instead.
func Sanitize(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minSanitizedRunes {
		return "", false
	}

	if isLooping(text) {
		return "", false
	}

	text = bracketedRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = handleRe.ReplaceAllString(text, "")
	text = entityRe.ReplaceAllString(text, "")
	text = gibberishRe.ReplaceAllString(text, "")
	text = textutil.CollapseSpace(text)

	if utf8.RuneCountInString(text) < minSanitizedRunes {
		return "", false
	}
	if !letterRunRe.MatchString(text) {
		return "", false
	}
	return text, true
}

// isLooping detects degenerate repetition: many words, few distinct ones.
func isLooping(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) <= dupWordCount {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) < float64(len(words))*dupWordThreshold
}

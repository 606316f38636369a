// Package answer extracts a direct reply from a retrieved corpus chunk.
//
// Extraction is a heuristic pipeline over the chunk's source block: strip
// the block markers and list bullets, drop template lines, keep the first
// few real sentences and cap the length. When the pipeline cannot produce a
// plausible answer it reports failure and the caller falls back to
// generation.
package answer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/corpus"
	"github.com/atu-portal/assistant/internal/textutil"
)

const (
	// minAnswerRunes rejects fragments too short to be an answer.
	minAnswerRunes = 20
	// maxAnswerRunes is the hard cap on an extracted answer.
	maxAnswerRunes = 300
	// backoffRunes is where a truncated answer backs off to the previous
	// sentence boundary instead of cutting mid-sentence.
	backoffRunes = 200
	// maxSentences keeps an extracted answer to a few sentences.
	maxSentences = 3
	// minSentenceRunes drops sentence fragments.
	minSentenceRunes = 10
	// minInlineRunes is when a bare chunk snippet is long enough to clean
	// up directly, without a source block.
	minInlineRunes = 50
)

var (
	markerLineRe  = regexp.MustCompile(`(?m)^✦[^\n:]*:?[ \t]*\n?`)
	closeMarkRe   = regexp.MustCompile(`◈\s*`)
	bulletRe      = regexp.MustCompile(`(?m)^-\s*`)
	numberedRe    = regexp.MustCompile(`(?m)^\d+\.\s*`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
	backtickRe    = regexp.MustCompile("`[^`]+`")
	sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)
)

// BlockLookup resolves chunk titles back to their raw corpus blocks.
// *corpus.Index satisfies it.
type BlockLookup interface {
	Block(title string) (string, bool)
	Raw() string
}

// Extract tries to produce a direct answer from chunk. The boolean reports
// success; on failure the caller should fall back to generation.
func Extract(chunk *corpus.Chunk, ix BlockLookup) (string, bool) {
	if chunk == nil {
		return "", false
	}

	block := resolveBlock(chunk, ix)
	if block == "" {
		// No source block. A long enough snippet can still be cleaned up
		// into an answer.
		if utf8.RuneCountInString(chunk.Text) > minInlineRunes {
			return finalize(chunk.Text)
		}
		return "", false
	}
	return extractFromBlock(block)
}

// resolveBlock finds the raw text behind a chunk, trying progressively
// looser strategies.
func resolveBlock(chunk *corpus.Chunk, ix BlockLookup) string {
	if chunk.Block != "" {
		return chunk.Block
	}
	if ix == nil {
		return ""
	}
	if b, ok := ix.Block(chunk.Title); ok {
		return b
	}

	raw := ix.Raw()
	if chunk.Title != "" && raw != "" {
		re, err := regexp.Compile(`(?s)✦[^◈]*` + regexp.QuoteMeta(chunk.Title) + `[^◈]*◈`)
		if err == nil {
			if m := re.FindString(raw); m != "" {
				return m
			}
		}
		if b := colonSection(raw, chunk.Title); b != "" {
			return b
		}
	}
	return ""
}

// colonSection finds a "Title:" heading in flat corpus text and returns the
// text up to the next blank line.
func colonSection(raw, title string) string {
	lowerRaw := strings.ToLower(raw)
	marker := strings.ToLower(title) + ":"
	idx := strings.Index(lowerRaw, marker)
	if idx < 0 {
		return ""
	}
	section := raw[idx:]
	if end := strings.Index(section, "\n\n"); end >= 0 {
		section = section[:end]
	}
	return section
}

// extractFromBlock runs the cleanup pipeline over one raw block.
func extractFromBlock(block string) (string, bool) {
	text := stripMarkers(block)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minAnswerRunes {
		return "", false
	}

	text = bulletRe.ReplaceAllString(text, "")
	text = numberedRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = backtickRe.ReplaceAllString(text, "")
	text = joinLines(text)

	return finalize(text)
}

// stripMarkers removes the opening marker with its title and the closing
// marker, keeping any body text that shares the title line.
func stripMarkers(block string) string {
	text := markerLineRe.ReplaceAllString(block, "")
	return strings.TrimSpace(closeMarkRe.ReplaceAllString(text, ""))
}

// joinLines drops short and template lines and folds the rest into one
// paragraph.
func joinLines(text string) string {
	lines := strings.Split(text, "\n")
	multi := len(lines) > 1

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 5 {
			continue
		}
		if multi && textutil.MostlyUppercase(line) {
			continue
		}
		kept = append(kept, line)
	}

	joined := strings.Join(kept, ". ")
	return strings.ReplaceAll(joined, "..", ".")
}

// finalize keeps the first sentences, caps the length and rejects leftovers
// that do not look like an answer.
func finalize(text string) (string, bool) {
	sentences := sentenceSplit.Split(text, -1)
	kept := make([]string, 0, maxSentences)
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= minSentenceRunes {
			continue
		}
		if textutil.AllUppercaseLetters(s) {
			continue
		}
		kept = append(kept, strings.TrimRight(s, ".!?"))
		if len(kept) >= maxSentences {
			break
		}
	}
	if len(kept) == 0 {
		return "", false
	}

	out := strings.Join(kept, ". ") + "."
	if utf8.RuneCountInString(out) > maxAnswerRunes {
		out = textutil.TruncateRunes(out, maxAnswerRunes)
		if idx := strings.LastIndex(out, "."); idx >= 0 {
			if utf8.RuneCountInString(out[:idx]) >= backoffRunes {
				out = out[:idx+1]
			}
		}
	}

	out = strings.TrimSpace(out)
	if utf8.RuneCountInString(out) < minAnswerRunes || textutil.AllUppercaseLetters(out) {
		return "", false
	}
	return out, true
}

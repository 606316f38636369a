// Package corpus turns the portal knowledge text into an in-memory index of
// retrievable chunks.
//
// The indexer recognizes two corpus layouts and degrades gracefully:
//
//  1. Delimited blocks: sections wrapped in ✦ ... ◈ markers, one chunk per
//     block. This is the authored layout and carries the block titles the
//     answer extractor relies on.
//  2. Banner sections: headers framed by lines of "=" characters. Section
//     bodies are re-chunked by paragraph so a single long section does not
//     become one oversized chunk.
//
// If neither layout matches, the whole text becomes a single fallback chunk
// so retrieval still has something to work with.
package corpus

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/textutil"
)

const (
	// minBlockRunes is the minimum raw size of a delimited block.
	minBlockRunes = 20
	// minBlockCleanRunes is the minimum normalized size of a block body.
	minBlockCleanRunes = 30
	// minSectionChunkRunes is the minimum normalized size of a banner chunk.
	minSectionChunkRunes = 80
	// sectionBufferRunes is the paragraph accumulation target for banner
	// sections.
	sectionBufferRunes = 700
	// snippetRunes caps the stored display text of a chunk.
	snippetRunes = 150
	// maxKeywords caps the keyword list per chunk.
	maxKeywords = 60
	// keyword length bounds, in runes
	minKeywordRunes = 4
	maxKeywordRunes = 18
)

// FallbackTitle is the title of the single chunk built when the corpus has
// no recognizable structure.
const FallbackTitle = "Контекст"

var (
	blockRe  = regexp.MustCompile(`(?s)✦([^◈]+)◈`)
	headerRe = regexp.MustCompile(`(?m)^={10,}[ \t]*\n([^\n]+)\n={10,}[ \t]*$`)
)

// Chunk is one retrievable unit of the corpus.
type Chunk struct {
	// ID is stable across rebuilds of the same corpus text and keys the
	// embedding cache.
	ID string

	// Title is the block or section heading the chunk came from.
	Title string

	// Text is the normalized display snippet, capped at snippetRunes.
	Text string

	// Lower is the lowercase search haystack (title plus full normalized
	// body) used by the lexical prefilter.
	Lower string

	// Keywords are the deduplicated body tokens used for keyword scoring.
	Keywords []string

	// Block is the full raw delimited block (markers included) when the
	// chunk came from one, empty otherwise. The answer extractor prefers
	// it over the capped snippet.
	Block string
}

// EmbeddingText returns the text embedded for this chunk.
func (c *Chunk) EmbeddingText() string {
	if c.Title != "" {
		return c.Title + "\n" + c.Text
	}
	return c.Text
}

// Index is the immutable result of indexing one corpus text.
type Index struct {
	Chunks []Chunk

	blocks map[string]string
	raw    string
}

// Len returns the number of chunks.
func (ix *Index) Len() int { return len(ix.Chunks) }

// Raw returns the original corpus text.
func (ix *Index) Raw() string { return ix.raw }

// Block returns the full raw block registered under title, matched
// case-insensitively. Titles are registered both bare and with their
// trailing colon stripped.
func (ix *Index) Block(title string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(title))
	if b, ok := ix.blocks[key]; ok {
		return b, true
	}
	if b, ok := ix.blocks[strings.TrimSuffix(key, ":")]; ok {
		return b, true
	}
	return "", false
}

// BuildIndex indexes raw corpus text. It never returns an empty index for a
// non-blank input: when no structure is found the whole text becomes one
// fallback chunk.
func BuildIndex(raw string) *Index {
	ix := &Index{
		raw:    raw,
		blocks: make(map[string]string),
	}

	ix.Chunks = buildDelimitedChunks(raw, ix.blocks)
	if len(ix.Chunks) > 0 {
		return ix
	}

	ix.Chunks = buildBannerChunks(raw)
	if len(ix.Chunks) > 0 {
		return ix
	}

	if cleaned := textutil.CollapseSpace(raw); cleaned != "" {
		ix.Chunks = []Chunk{{
			ID:       "fallback",
			Title:    FallbackTitle,
			Text:     textutil.TruncateRunes(cleaned, snippetRunes),
			Lower:    strings.ToLower(cleaned),
			Keywords: extractKeywords(cleaned),
		}}
	}
	return ix
}

// buildDelimitedChunks extracts ✦...◈ blocks. The first line of a block is
// its title, the rest is the body. Blocks too small to carry an answer are
// dropped.
func buildDelimitedChunks(raw string, blocks map[string]string) []Chunk {
	matches := blockRe.FindAllStringSubmatch(raw, -1)
	chunks := make([]Chunk, 0, len(matches))

	for _, m := range matches {
		full, inner := m[0], strings.TrimSpace(m[1])
		if utf8.RuneCountInString(inner) < minBlockRunes {
			continue
		}

		title, body := splitTitle(inner)
		cleaned := textutil.CollapseSpace(body)
		if utf8.RuneCountInString(cleaned) < minBlockCleanRunes {
			continue
		}

		key := strings.ToLower(title)
		blocks[key] = full
		blocks[strings.TrimSuffix(key, ":")] = full

		chunks = append(chunks, Chunk{
			ID:       "block_" + title,
			Title:    title,
			Text:     textutil.TruncateRunes(cleaned, snippetRunes),
			Lower:    strings.ToLower(title + " " + cleaned),
			Keywords: extractKeywords(cleaned),
			Block:    full,
		})
	}
	return chunks
}

// splitTitle splits a block body into its first-line title and the rest.
// A trailing colon on the title line is decorative and stripped.
func splitTitle(inner string) (title, body string) {
	title = "Блок"
	body = inner
	if idx := strings.IndexByte(inner, '\n'); idx >= 0 {
		first := strings.TrimSpace(inner[:idx])
		if first != "" {
			title = strings.TrimSuffix(first, ":")
			body = inner[idx+1:]
		}
	} else if first := strings.TrimSpace(inner); first != "" {
		// Single-line block: the line doubles as title and body.
		title = strings.TrimSuffix(first, ":")
	}
	return title, body
}

// buildBannerChunks slices the corpus on "=" banner headers and re-chunks
// each section body by paragraph.
func buildBannerChunks(raw string) []Chunk {
	locs := headerRe.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return nil
	}

	var chunks []Chunk
	for i, loc := range locs {
		title := strings.TrimSpace(raw[loc[2]:loc[3]])
		bodyStart := loc[1]
		bodyEnd := len(raw)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		chunks = append(chunks, chunkSectionBody(title, raw[bodyStart:bodyEnd])...)
	}
	return chunks
}

// chunkSectionBody accumulates paragraphs until the buffer passes
// sectionBufferRunes, then flushes a chunk. Undersized leftovers are
// dropped.
func chunkSectionBody(title, body string) []Chunk {
	var (
		chunks []Chunk
		buf    strings.Builder
		seq    int
	)

	flush := func() {
		defer buf.Reset()
		cleaned := textutil.CollapseSpace(buf.String())
		if utf8.RuneCountInString(cleaned) < minSectionChunkRunes {
			return
		}
		chunks = append(chunks, Chunk{
			ID:       fmt.Sprintf("%s#%d", title, seq),
			Title:    title,
			Text:     textutil.TruncateRunes(cleaned, snippetRunes),
			Lower:    strings.ToLower(title + " " + cleaned),
			Keywords: extractKeywords(cleaned),
		})
		seq++
	}

	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(para)
		if utf8.RuneCountInString(buf.String()) >= sectionBufferRunes {
			flush()
		}
	}
	flush()
	return chunks
}

// extractKeywords keeps tokens between minKeywordRunes and maxKeywordRunes
// runes, capped at maxKeywords. Shorter tokens are mostly prepositions and
// longer ones are URL or markup debris.
func extractKeywords(s string) []string {
	tokens := textutil.Tokenize(s)
	keywords := make([]string, 0, min(len(tokens), maxKeywords))
	for _, t := range tokens {
		n := utf8.RuneCountInString(t)
		if n < minKeywordRunes || n > maxKeywordRunes {
			continue
		}
		keywords = append(keywords, t)
		if len(keywords) >= maxKeywords {
			break
		}
	}
	return keywords
}

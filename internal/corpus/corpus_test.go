package corpus

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const delimitedCorpus = `Вводный текст без маркеров.

✦Электронная библиотека:
Электронная библиотека доступна в разделе Библиотека. Там собраны учебники,
методические пособия и научные статьи по всем программам университета.◈

✦Личный кабинет:
В личном кабинете студент может посмотреть своё расписание, оценки и
назначенную группу. Доступ открывается после авторизации на портале.◈

✦Мал◈
`

func TestBuildIndexDelimited(t *testing.T) {
	ix := BuildIndex(delimitedCorpus)

	if got := ix.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	first := ix.Chunks[0]
	if first.Title != "Электронная библиотека" {
		t.Errorf("Title = %q, want %q", first.Title, "Электронная библиотека")
	}
	if first.ID != "block_Электронная библиотека" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Block == "" || !strings.Contains(first.Block, "✦") {
		t.Errorf("Block should keep the raw delimited text, got %q", first.Block)
	}
	if !strings.Contains(first.Lower, "библиотека") {
		t.Errorf("Lower should contain the body tokens, got %q", first.Lower)
	}
	if utf8.RuneCountInString(first.Text) > 150 {
		t.Errorf("Text exceeds snippet cap: %d runes", utf8.RuneCountInString(first.Text))
	}
}

func TestBuildIndexBlockLookup(t *testing.T) {
	ix := BuildIndex(delimitedCorpus)

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"exact title", "Личный кабинет", true},
		{"case insensitive", "личный КАБИНЕТ", true},
		{"with trailing colon", "Личный кабинет:", true},
		{"unknown", "Столовая", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := ix.Block(tt.title)
			if ok != tt.want {
				t.Fatalf("Block(%q) ok = %v, want %v", tt.title, ok, tt.want)
			}
			if ok && !strings.Contains(block, "кабинете") {
				t.Errorf("Block(%q) = %q, missing body", tt.title, block)
			}
		})
	}
}

func TestBuildIndexBanner(t *testing.T) {
	var body strings.Builder
	body.WriteString("============\nРасписание занятий\n============\n")
	for range 8 {
		body.WriteString("Расписание занятий публикуется в личном кабинете каждую неделю. ")
		body.WriteString("Изменения отражаются автоматически после согласования деканатом.\n\n")
	}

	ix := BuildIndex(body.String())

	if ix.Len() == 0 {
		t.Fatal("banner corpus produced no chunks")
	}
	for _, c := range ix.Chunks {
		if c.Title != "Расписание занятий" {
			t.Errorf("Title = %q", c.Title)
		}
		if c.Block != "" {
			t.Errorf("banner chunks carry no raw block, got %q", c.Block)
		}
		if utf8.RuneCountInString(c.Text) > 150 {
			t.Errorf("Text exceeds snippet cap: %d runes", utf8.RuneCountInString(c.Text))
		}
	}
}

func TestBuildIndexFallback(t *testing.T) {
	raw := "Портал АТУ предоставляет доступ к расписанию, библиотеке и личному кабинету студента."
	ix := BuildIndex(raw)

	if ix.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ix.Len())
	}
	c := ix.Chunks[0]
	if c.ID != "fallback" || c.Title != FallbackTitle {
		t.Errorf("fallback chunk = %q/%q", c.ID, c.Title)
	}
	if ix.Raw() != raw {
		t.Error("Raw() should return the original text")
	}
}

func TestBuildIndexBlank(t *testing.T) {
	ix := BuildIndex("   \n\n  ")
	if ix.Len() != 0 {
		t.Fatalf("blank corpus produced %d chunks", ix.Len())
	}
}

func TestExtractKeywords(t *testing.T) {
	s := "в на библиотека расписание о из оченьдлинноесловобезкакихлибограниц"
	kws := extractKeywords(s)

	for _, k := range kws {
		n := utf8.RuneCountInString(k)
		if n < 4 || n > 18 {
			t.Errorf("keyword %q has %d runes, want 4..18", k, n)
		}
	}
	if len(kws) != 2 {
		t.Errorf("keywords = %v, want [библиотека расписание]", kws)
	}
}

func TestChunkEmbeddingText(t *testing.T) {
	c := &Chunk{Title: "Библиотека", Text: "описание"}
	if got := c.EmbeddingText(); got != "Библиотека\nописание" {
		t.Errorf("EmbeddingText() = %q", got)
	}
}

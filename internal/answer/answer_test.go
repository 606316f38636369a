package answer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/corpus"
)

func TestExtractFromDelimitedBlock(t *testing.T) {
	raw := `✦Библиотека:
Электронная библиотека доступна в разделе Библиотека.
Там собраны учебники, методические пособия и научные статьи.
Доступ открыт всем студентам после авторизации.
Четвёртое предложение сюда уже не попадает.◈`

	ix := corpus.BuildIndex(raw)
	got, ok := Extract(&ix.Chunks[0], ix)
	if !ok {
		t.Fatal("extraction failed")
	}
	if strings.Contains(got, "✦") || strings.Contains(got, "◈") {
		t.Errorf("markers leaked into answer: %q", got)
	}
	if strings.Contains(got, "Четвёртое") {
		t.Errorf("answer should keep at most three sentences: %q", got)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("answer should end with a period: %q", got)
	}
}

func TestExtractDropsListMarkersAndTemplates(t *testing.T) {
	block := `✦Сервисы:
- Электронная библиотека с учебниками и пособиями для студентов.
1. Личный кабинет с расписанием занятий и оценками.
ВНУТРЕННИЙ СЛУЖЕБНЫЙ ЗАГОЛОВОК
Команда ` + "`/help`" + ` выводит список доступных команд портала.◈`

	got, ok := extractFromBlock(block)
	if !ok {
		t.Fatal("extraction failed")
	}
	if strings.Contains(got, "- ") || strings.Contains(got, "1.") {
		t.Errorf("list markers leaked: %q", got)
	}
	if strings.Contains(got, "СЛУЖЕБНЫЙ") {
		t.Errorf("template line leaked: %q", got)
	}
	if strings.Contains(got, "`") {
		t.Errorf("backticks leaked: %q", got)
	}
}

func TestExtractRejectsShortBlock(t *testing.T) {
	if _, ok := extractFromBlock("✦Блок:\nмало◈"); ok {
		t.Error("short block should be rejected")
	}
}

func TestExtractCapsLength(t *testing.T) {
	sentence := "Это очень длинное предложение про работу студенческого портала и всех его разделов без остановки"
	block := "✦Блок:\n" + sentence + ". " + sentence + ". " + sentence + ".◈"

	got, ok := extractFromBlock(block)
	if !ok {
		t.Fatal("extraction failed")
	}
	if n := utf8.RuneCountInString(got); n > 300 {
		t.Errorf("answer has %d runes, cap is 300", n)
	}
}

func TestExtractResolvesBlockByTitle(t *testing.T) {
	raw := `✦Столовая:
Столовая работает на первом этаже главного корпуса с девяти утра до шести вечера.◈`
	ix := corpus.BuildIndex(raw)

	// Chunk without an attached block, only a title.
	chunk := &corpus.Chunk{ID: "x", Title: "Столовая", Text: "short"}
	got, ok := Extract(chunk, ix)
	if !ok {
		t.Fatal("extraction failed")
	}
	if !strings.Contains(got, "первом этаже") {
		t.Errorf("answer = %q", got)
	}
}

func TestExtractInlineFallback(t *testing.T) {
	chunk := &corpus.Chunk{
		ID:    "x",
		Title: "Неизвестно",
		Text:  "Портал предоставляет доступ к расписанию занятий, библиотеке и личному кабинету студента.",
	}
	got, ok := Extract(chunk, nil)
	if !ok {
		t.Fatal("long snippet should be usable as an answer")
	}
	if utf8.RuneCountInString(got) < 20 {
		t.Errorf("answer too short: %q", got)
	}
}

func TestExtractNilChunk(t *testing.T) {
	if _, ok := Extract(nil, nil); ok {
		t.Error("nil chunk should fail")
	}
}

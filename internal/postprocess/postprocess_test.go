package postprocess

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanStripsPromptEcho(t *testing.T) {
	prompt := "Контекст: библиотека на втором этаже.\nВопрос: где библиотека?"
	generated := prompt + "\nОтвет: Библиотека находится на втором этаже корпуса."

	got := Clean(generated, prompt, "где библиотека?")
	if strings.Contains(got, "Контекст:") || strings.Contains(got, "Вопрос:") {
		t.Errorf("prompt leaked: %q", got)
	}
	if !strings.Contains(got, "втором этаже") {
		t.Errorf("answer lost: %q", got)
	}
}

func TestCleanKeepsTextAfterLastAnswerMarker(t *testing.T) {
	generated := "Ответ: первый черновик ответа. Вопрос: снова? Ответ: Библиотека работает до шести вечера."

	got := Clean(generated, "", "")
	if strings.Contains(got, "черновик") {
		t.Errorf("earlier turn leaked: %q", got)
	}
	if !strings.Contains(got, "до шести вечера") {
		t.Errorf("final answer lost: %q", got)
	}
}

func TestCleanStripsQuestionEcho(t *testing.T) {
	got := Clean("Где находится столовая? Столовая работает на первом этаже.", "", "где находится столовая")
	if strings.HasPrefix(strings.ToLower(got), "где находится") {
		t.Errorf("question echo kept: %q", got)
	}
	if !strings.Contains(got, "первом этаже") {
		t.Errorf("answer lost: %q", got)
	}
}

func TestCleanTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("а", 250) + ". " + strings.Repeat("б", 400)
	got := Clean(long, "", "")
	if n := utf8.RuneCountInString(got); n > 500 {
		t.Errorf("output has %d runes, cap is 500", n)
	}
}

func TestCleanDropsTemplateLines(t *testing.T) {
	generated := "Библиотека открыта каждый день с девяти утра.\nOutput: 42\nВыведите: результат\nКоличество: 7"
	got := Clean(generated, "", "")
	if strings.Contains(got, "Output") || strings.Contains(got, "Количество") {
		t.Errorf("template lines leaked: %q", got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Ответ: Библиотека работает до шести вечера каждый день.",
		"Вопрос: где столовая? Ответ: Столовая на первом этаже корпуса.",
		"Обычный ответ без всяких маркеров и мусора в тексте.",
		// Short leakage lines that join into a line the filter rejects.
		"Количество статей в библиотеке растёт\nВыведите список на экран чтобы проверить",
		"Портал доступен студентам\nКоличество разделов увеличено",
		"Первая строка ответа без точки\nвторая строка ответа без точки",
	}
	for _, in := range inputs {
		once := Clean(in, "", "")
		twice := Clean(once, "", "")
		if once != twice {
			t.Errorf("Clean not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestCleanDropsLeakageAssembledFromShortLines(t *testing.T) {
	in := "Количество статей в библиотеке растёт\nВыведите список на экран чтобы проверить"
	if got := Clean(in, "", ""); got != "" {
		t.Errorf("joined leakage should be dropped, got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOK bool
	}{
		{"plain answer", "Библиотека находится на втором этаже главного корпуса.", true},
		{"too short", "Да.", false},
		{"empty", "   ", false},
		{
			"looping output",
			strings.Repeat("портал портал ", 20),
			false,
		},
		{"no letters", "12345 67890 !!! ???", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sanitize(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Sanitize(%q) ok = %v, want %v (got %q)", tt.in, ok, tt.wantOK, got)
			}
			if ok && got == "" {
				t.Error("accepted but empty")
			}
		})
	}
}

func TestSanitizeStripsDebris(t *testing.T) {
	in := "Расписание доступно в личном кабинете https://example.com/schedule и на стенде @portal #info &nbsp; деканата."
	got, ok := Sanitize(in)
	if !ok {
		t.Fatalf("Sanitize rejected: %q", in)
	}
	for _, debris := range []string{"http", "@", "#", "&nbsp;"} {
		if strings.Contains(got, debris) {
			t.Errorf("debris %q leaked: %q", debris, got)
		}
	}
	if !strings.Contains(got, "личном кабинете") {
		t.Errorf("content lost: %q", got)
	}
}

package i18n

import (
	"strings"
	"testing"
)

func TestTranslationFallback(t *testing.T) {
	Init(LangRU)

	if got := T("greeting.casual"); !strings.Contains(got, "Привет") {
		t.Errorf("T(greeting.casual) = %q", got)
	}
	if got := T("no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key should return itself, got %q", got)
	}
}

func TestLanguageSwitch(t *testing.T) {
	Init(LangEN)
	defer Init(LangRU)

	if got := T("command.cancelled"); !strings.Contains(got, "cancelled") {
		t.Errorf("english string = %q", got)
	}
	if GetLanguage() != LangEN {
		t.Errorf("GetLanguage = %q", GetLanguage())
	}
}

func TestSprintf(t *testing.T) {
	Init(LangRU)

	if got := Sprintf("user.named", "Айгерим"); !strings.Contains(got, "Айгерим") {
		t.Errorf("Sprintf = %q", got)
	}
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	Init(LangRU)

	for key := range messages[LangRU] {
		if _, ok := messages[LangEN][key]; !ok {
			t.Errorf("key %q missing english translation", key)
		}
	}
	for key := range messages[LangEN] {
		if _, ok := messages[LangRU][key]; !ok {
			t.Errorf("key %q missing russian translation", key)
		}
	}
}

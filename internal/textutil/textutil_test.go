package textutil

import (
	"slices"
	"testing"
)

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  а   б\n\nв\t", "а б в"},
		{"", ""},
		{"одно", "одно"},
	}
	for _, tt := range tests {
		if got := CollapseSpace(tt.in); got != tt.want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	// Cyrillic characters are two bytes each; truncation must not split them.
	if got := TruncateRunes("привет", 4); got != "прив" {
		t.Errorf("TruncateRunes = %q, want %q", got, "прив")
	}
	if got := TruncateRunes("да", 10); got != "да" {
		t.Errorf("TruncateRunes should not pad: %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Где, где находится Библиотека?!")
	want := []string{"где", "находится", "библиотека"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestMostlyUppercase(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ВНИМАНИЕ ВАЖНОЕ ОБЪЯВЛЕНИЕ", true},
		{"Обычное предложение о портале", false},
		{"", false},
		{"ЗАГОЛОВОКБЛОКА", true},
	}
	for _, tt := range tests {
		if got := MostlyUppercase(tt.in); got != tt.want {
			t.Errorf("MostlyUppercase(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAllUppercaseLetters(t *testing.T) {
	if !AllUppercaseLetters("АБВ ГДЕ") {
		t.Error("uppercase letters with spaces should match")
	}
	if AllUppercaseLetters("АБВ где") {
		t.Error("mixed case should not match")
	}
	if AllUppercaseLetters("   ") {
		t.Error("whitespace only should not match")
	}
}

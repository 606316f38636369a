// Package i18n provides the localized user-visible strings for the chat
// surface. Russian is the primary portal language; English is the fallback.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

// Supported languages
const (
	LangRU = "ru"
	LangEN = "en"
)

// currentLang holds the current language setting
var currentLang = LangRU

// messages stores all translations
var messages = make(map[string]map[string]string)

// Init initializes the i18n system with the specified language.
func Init(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))

	switch lang {
	case "ru", "ru-ru", "russian":
		currentLang = LangRU
	case "en", "en-us", "english":
		currentLang = LangEN
	default:
		if envLang := os.Getenv("ASSISTANT_LANG"); envLang != "" && !strings.EqualFold(envLang, lang) {
			Init(envLang)
			return
		}
		currentLang = LangRU
	}

	loadMessages()
}

// SetLanguage changes the current language.
func SetLanguage(lang string) {
	Init(lang)
}

// GetLanguage returns the current language.
func GetLanguage() string {
	return currentLang
}

// T returns the translated message for the given key.
// Falls back to Russian, then to the key itself.
func T(key string) string {
	if msg, ok := messages[currentLang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangRU][key]; ok {
		return msg
	}
	return key
}

// Sprintf returns the translated and formatted message.
func Sprintf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

func loadMessages() {
	messages[LangRU] = make(map[string]string)
	messages[LangEN] = make(map[string]string)

	loadRussianMessages()
	loadEnglishMessages()
}

func init() {
	if envLang := os.Getenv("ASSISTANT_LANG"); envLang != "" {
		Init(envLang)
	} else {
		Init(LangRU)
	}
}

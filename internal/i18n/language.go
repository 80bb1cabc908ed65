// Package i18n renders user-facing replies in the supported display languages
// and remembers each session's chosen language.
package i18n

import "strings"

// Language is an ISO 639-1 code.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
	French  Language = "fr"
)

// Supported lists the languages with a message catalog.
var Supported = []Language{English, Spanish, French}

var languageNames = map[string]Language{
	"en": English, "english": English, "inglés": English, "ingles": English, "anglais": English,
	"es": Spanish, "spanish": Spanish, "español": Spanish, "espanol": Spanish, "castellano": Spanish, "espagnol": Spanish,
	"fr": French, "french": French, "français": French, "francais": French, "francés": French, "frances": French,
}

// ParseLanguage accepts codes such as "en" or "fr-CH" and language names in
// any of the supported languages.
func ParseLanguage(s string) (Language, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	if lang, ok := languageNames[key]; ok {
		return lang, true
	}
	if i := strings.IndexAny(key, "-_"); i > 0 {
		if lang, ok := languageNames[key[:i]]; ok {
			return lang, true
		}
	}
	return "", false
}

func (l Language) String() string { return string(l) }

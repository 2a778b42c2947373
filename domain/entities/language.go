package entities

import (
	"errors"
	"strings"
)

// Language is a translation target offered by the control panel
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ErrUnknownLanguage is returned when a code or name is not in the table
var ErrUnknownLanguage = errors.New("unknown language")

// LanguageTable is an immutable, ordered set of supported target languages.
// The zero value is an empty table.
type LanguageTable struct {
	languages []Language
	byCode    map[string]int
	byName    map[string]int
}

// NewLanguageTable builds a table from the given languages, preserving order.
// Duplicate codes or names keep the first occurrence.
func NewLanguageTable(languages ...Language) LanguageTable {
	t := LanguageTable{
		languages: make([]Language, 0, len(languages)),
		byCode:    make(map[string]int, len(languages)),
		byName:    make(map[string]int, len(languages)),
	}
	for _, lang := range languages {
		code := strings.ToLower(strings.TrimSpace(lang.Code))
		name := strings.ToLower(strings.TrimSpace(lang.Name))
		if code == "" || name == "" {
			continue
		}
		if _, exists := t.byCode[code]; exists {
			continue
		}
		if _, exists := t.byName[name]; exists {
			continue
		}
		t.byCode[code] = len(t.languages)
		t.byName[name] = len(t.languages)
		t.languages = append(t.languages, Language{Name: lang.Name, Code: code})
	}
	return t
}

// DefaultLanguages returns the 20 languages supported by the translation backend
func DefaultLanguages() LanguageTable {
	return NewLanguageTable(
		Language{Name: "English", Code: "en"},
		Language{Name: "Spanish", Code: "es"},
		Language{Name: "French", Code: "fr"},
		Language{Name: "German", Code: "de"},
		Language{Name: "Italian", Code: "it"},
		Language{Name: "Hindi", Code: "hi"},
		Language{Name: "Marathi", Code: "mr"},
		Language{Name: "Gujarati", Code: "gu"},
		Language{Name: "Tamil", Code: "ta"},
		Language{Name: "Telugu", Code: "te"},
		Language{Name: "Kannada", Code: "kn"},
		Language{Name: "Malayalam", Code: "ml"},
		Language{Name: "Punjabi", Code: "pa"},
		Language{Name: "Bengali", Code: "bn"},
		Language{Name: "Urdu", Code: "ur"},
		Language{Name: "Chinese", Code: "zh-cn"},
		Language{Name: "Japanese", Code: "ja"},
		Language{Name: "Russian", Code: "ru"},
		Language{Name: "Korean", Code: "ko"},
		Language{Name: "Arabic", Code: "ar"},
	)
}

// Len returns the number of languages in the table
func (t LanguageTable) Len() int {
	return len(t.languages)
}

// At returns the language at position i in display order
func (t LanguageTable) At(i int) Language {
	return t.languages[i]
}

// All returns a copy of the table in display order
func (t LanguageTable) All() []Language {
	return append([]Language(nil), t.languages...)
}

// Lookup resolves either a code ("fr") or a display name ("French")
func (t LanguageTable) Lookup(codeOrName string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(codeOrName))
	if key == "" {
		return Language{}, ErrUnknownLanguage
	}
	if i, ok := t.byCode[key]; ok {
		return t.languages[i], nil
	}
	if i, ok := t.byName[key]; ok {
		return t.languages[i], nil
	}
	return Language{}, ErrUnknownLanguage
}

// BaseCode returns the primary subtag of a code, e.g. "zh" for "zh-cn"
func (l Language) BaseCode() string {
	if i := strings.IndexByte(l.Code, '-'); i > 0 {
		return l.Code[:i]
	}
	return l.Code
}

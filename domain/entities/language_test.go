package entities

import (
	"errors"
	"testing"
)

func TestDefaultLanguages(t *testing.T) {
	table := DefaultLanguages()

	if table.Len() != 20 {
		t.Fatalf("Expected 20 languages, got %d", table.Len())
	}

	if first := table.At(0); first.Name != "English" || first.Code != "en" {
		t.Errorf("Expected English first, got %+v", first)
	}

	if last := table.At(table.Len() - 1); last.Code != "ar" {
		t.Errorf("Expected Arabic last, got %+v", last)
	}
}

func TestLanguageTableLookup(t *testing.T) {
	table := DefaultLanguages()

	tests := []struct {
		input    string
		wantCode string
		wantErr  bool
	}{
		{input: "fr", wantCode: "fr"},
		{input: "French", wantCode: "fr"},
		{input: "  JAPANESE ", wantCode: "ja"},
		{input: "zh-CN", wantCode: "zh-cn"},
		{input: "", wantErr: true},
		{input: "Select Language", wantErr: true},
		{input: "xx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lang, err := table.Lookup(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownLanguage) {
					t.Errorf("Expected ErrUnknownLanguage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if lang.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, lang.Code)
			}
		})
	}
}

func TestLanguageTableIgnoresDuplicates(t *testing.T) {
	table := NewLanguageTable(
		Language{Name: "English", Code: "en"},
		Language{Name: "Anglais", Code: "EN"},
		Language{Name: "", Code: "xx"},
	)

	if table.Len() != 1 {
		t.Fatalf("Expected 1 language, got %d", table.Len())
	}

	all := table.All()
	all[0].Name = "mutated"
	if table.At(0).Name != "English" {
		t.Error("All should return a copy")
	}
}

func TestLanguageBaseCode(t *testing.T) {
	if got := (Language{Code: "zh-cn"}).BaseCode(); got != "zh" {
		t.Errorf("Expected zh, got %s", got)
	}
	if got := (Language{Code: "fr"}).BaseCode(); got != "fr" {
		t.Errorf("Expected fr, got %s", got)
	}
}

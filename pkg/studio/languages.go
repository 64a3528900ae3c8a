package studio

import (
	"fmt"
	"strings"
)

// DefaultLanguage is the output language used when none is selected.
const DefaultLanguage = "italian"

// LanguageCustom selects a free-form language name.
const LanguageCustom = "custom"

// Languages maps a language key to its instruction, in menu order.
var Languages = []struct {
	Key         string
	Instruction string
}{
	{"italian", "Response should be in Italian."},
	{"english", "Response should be in English."},
	{"spanish", "Response should be in Spanish."},
	{"french", "Response should be in French."},
	{"german", "Response should be in German."},
	{"portuguese", "Response should be in Portuguese."},
	{"chinese", "Response should be in Chinese."},
	{"japanese", "Response should be in Japanese."},
	{"korean", "Response should be in Korean."},
}

// LanguageInstruction returns the instruction appended to generation prompts.
// A custom language produces "Response should be in {custom}."; unknown keys
// and an empty custom name fall back to Italian.
func LanguageInstruction(language, custom string) string {
	key := strings.ToLower(strings.TrimSpace(language))

	if key == LanguageCustom {
		if name := strings.TrimSpace(custom); name != "" {
			return fmt.Sprintf("Response should be in %s.", name)
		}
		key = DefaultLanguage
	}

	var fallback string
	for _, l := range Languages {
		if l.Key == key {
			return l.Instruction
		}
		if l.Key == DefaultLanguage {
			fallback = l.Instruction
		}
	}
	return fallback
}

package textutil

import (
	"strings"
)

// Forms returns the ordered, de-duplicated set of spellings a string can be
// matched under: the original, its lowercase form, and the output of every
// converter (plus lowercase). Converters returning an empty string are skipped.
func Forms(text string, converters ...func(string) string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]struct{}, 2+2*len(converters))
	forms := make([]string, 0, 2+2*len(converters))
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		forms = append(forms, s)
	}
	add(text)
	add(strings.ToLower(text))
	for _, convert := range converters {
		if convert == nil {
			continue
		}
		converted := convert(text)
		add(converted)
		add(strings.ToLower(converted))
	}
	return forms
}

// SearchValue joins the forms of text with the full phonetic spelling and the
// initials of each syllable, producing one haystack string that matches
// queries typed in any script.
func SearchValue(forms []string, syllables []string) string {
	parts := make([]string, 0, len(forms)+2)
	seen := make(map[string]struct{}, len(forms)+2)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	for _, f := range forms {
		add(f)
	}
	if len(syllables) > 0 {
		add(strings.ToLower(strings.Join(syllables, " ")))
		var initials strings.Builder
		for _, s := range syllables {
			if s == "" {
				continue
			}
			initials.WriteString(strings.ToLower(s[:1]))
		}
		add(initials.String())
	}
	return strings.Join(parts, " ")
}

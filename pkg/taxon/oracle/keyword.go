package oracle

import (
	"context"
	"strings"
	"unicode"
)

// Keyword is an offline oracle that picks the first candidate mentioned in
// the text. A label made only of letters and digits must match a whole word;
// any other label, such as "machine learning" or "state-of-the-art", matches
// as a substring of the lowercased text.
type Keyword struct{}

// Choose implements Oracle. It returns "" when no candidate is mentioned.
func (Keyword) Choose(_ context.Context, text string, candidates []string) (string, error) {
	lower := strings.ToLower(text)
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lower, isSeparator) {
		words[w] = struct{}{}
	}

	for _, c := range candidates {
		if strings.IndexFunc(c, isSeparator) >= 0 {
			if strings.Contains(lower, c) {
				return c, nil
			}
			continue
		}
		if _, ok := words[c]; ok {
			return c, nil
		}
	}
	return "", nil
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

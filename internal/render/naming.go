package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first letter of name and lower-cases the rest:
// user_posts becomes User_posts.
func Capitalize(name string) string {
	_, n := utf8.DecodeRuneInString(name)
	if n == 0 {
		return name
	}
	// Casers are stateful and must not be shared between goroutines.
	return cases.Upper(language.Und).String(name[:n]) + cases.Lower(language.Und).String(name[n:])
}

// LowerWords splits name into words at separators, case changes and
// letter/digit boundaries and joins them lower-cased with single spaces:
// UserPosts, user_posts and user-posts all become "user posts".
func LowerWords(name string) string {
	words := splitWords(name)
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, " ")
}

func splitWords(s string) []string {
	runes := []rune(s)

	var (
		words []string
		start = -1
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsDigit(r) != unicode.IsDigit(prev):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush(i)
			start = i
		case unicode.IsLower(r) && unicode.IsUpper(prev) && i-1 > start:
			// acronym followed by a word: XMLHttp -> XML Http
			flush(i - 1)
			start = i - 1
		}
	}
	flush(len(runes))
	return words
}

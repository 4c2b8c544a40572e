// Package moderation gates product reviews on purchase history and masks
// profanity in submitted comments.
package moderation

import (
	"log"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// baseWords is the built-in dictionary. Locale-specific terms come in
// through FilterConfig.CustomWords.
var baseWords = []string{
	"ass", "asshole", "bastard", "bitch", "bullshit", "crap",
	"damn", "dick", "fuck", "piss", "prick", "shit", "slut", "whore",
}

// substitutions maps each letter to the character class covering its common
// leetspeak and symbol stand-ins.
var substitutions = map[rune]string{
	'a': "[a4@]",
	'b': "[b8]",
	'e': "[e3]",
	'g': "[g9]",
	'i': "[i1!|]",
	'l': "[l1]",
	'o': "[o0]",
	's': "[s5$z]",
	't': "[t7+]",
	'u': "[uv]",
}

// FilterConfig is built once at startup and injected; there is no package
// level word list.
type FilterConfig struct {
	CustomWords []string
	ErrorLog    *log.Logger
}

type Filter struct {
	patterns []*regexp.Regexp
	errorLog *log.Logger
}

// NewFilter compiles one pattern per dictionary word. Each pattern accepts
// leetspeak substitutions and spacing or hyphenation between letters, so
// "g a g o", "g-a-g-o", and "9a9o" all match "gago". A word that fails to
// compile is skipped, not fatal.
func NewFilter(cfg FilterConfig) *Filter {
	f := &Filter{errorLog: cfg.ErrorLog}
	words := append(append([]string{}, baseWords...), cfg.CustomWords...)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		re, err := regexp.Compile(wordPattern(w))
		if err != nil {
			if f.errorLog != nil {
				f.errorLog.Printf("moderation: pattern for %q: %v", w, err)
			}
			continue
		}
		f.patterns = append(f.patterns, re)
	}
	return f
}

func wordPattern(word string) string {
	var b strings.Builder
	b.WriteString(`(?i)`)
	first := true
	for _, r := range word {
		if !first {
			b.WriteString(`[\s\-_.]*`)
		}
		first = false
		if class, ok := substitutions[unicode.ToLower(r)]; ok {
			b.WriteString(class)
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// Clean masks every matched span with asterisks of the same rune length.
// Unmatched text is returned verbatim, which also makes Clean idempotent:
// asterisks never match any pattern. On an internal matcher panic the
// original text is returned unmodified.
func (f *Filter) Clean(text string) (cleaned string) {
	defer func() {
		if p := recover(); p != nil {
			if f.errorLog != nil {
				f.errorLog.Printf("moderation: matcher panic: %v", p)
			}
			cleaned = text
		}
	}()

	cleaned = text
	for _, re := range f.patterns {
		cleaned = maskMatches(cleaned, re)
	}
	return cleaned
}

// maskMatches replaces whole-token matches only; a word embedded in a longer
// alphanumeric run (such as "class") is left alone.
func maskMatches(text string, re *regexp.Regexp) string {
	locs := re.FindAllStringIndex(text, -1)
	if locs == nil {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start < prev || !tokenBoundary(text, start, end) {
			continue
		}
		b.WriteString(text[prev:start])
		b.WriteString(strings.Repeat("*", utf8.RuneCountInString(text[start:end])))
		prev = end
	}
	b.WriteString(text[prev:])
	return b.String()
}

func tokenBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

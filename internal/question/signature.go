package question

import (
	"sort"
	"strings"
	"unicode"
)

// ContentSignature fingerprints a prompt for duplicate detection. The text
// is lowercased, punctuation is removed and whitespace runs collapse to a
// single space. Punctuation that carries numeric meaning ("-", "/", ".",
// "%" touching a digit) is kept so "3/4" and "34" stay distinct.
func ContentSignature(content string) string {
	return normalizeText(content)
}

// AnswerSetSignature fingerprints an option set independent of order.
func AnswerSetSignature(options []string) string {
	norm := make([]string, len(options))
	for i, o := range options {
		norm[i] = normalizeText(o)
	}
	sort.Strings(norm)
	return strings.Join(norm, " | ")
}

// ContentSignature returns the record's prompt signature.
func (r Record) ContentSignature() string {
	return ContentSignature(r.Content)
}

// AnswerSetSignature returns the record's option-set signature.
func (r Record) AnswerSetSignature() string {
	return AnswerSetSignature(r.Options)
}

func normalizeText(s string) string {
	runes := []rune(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(runes))
	for i, r := range runes {
		if !unicode.IsPunct(r) {
			b.WriteRune(r)
			continue
		}
		if strings.ContainsRune("-/.%", r) && touchesDigit(runes, i) {
			b.WriteRune(r)
			continue
		}
		if r == '\'' || r == '’' {
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func touchesDigit(runes []rune, i int) bool {
	if i > 0 && unicode.IsDigit(runes[i-1]) {
		return true
	}
	return i+1 < len(runes) && unicode.IsDigit(runes[i+1])
}

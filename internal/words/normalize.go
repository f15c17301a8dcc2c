package words

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/robalobadob/wordrush/internal/game"
)

// Alphabet lists every letter a normalized word may contain: the 26 Latin
// capitals plus Ç, Ğ, İ, Ö, Ş, Ü.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZÇĞİÖŞÜ"

// Normalize canonicalizes raw guess text: NFC composition, Turkish
// uppercasing (i→İ, ı→I), removal of every rune outside Alphabet, and
// truncation to game.WordLength runes. It is total and idempotent.
func Normalize(raw string) string {
	// Casers carry state and must not be shared between goroutines.
	upper := cases.Upper(language.Turkish).String(norm.NFC.String(raw))

	var b strings.Builder
	n := 0
	for _, r := range upper {
		if n == game.WordLength {
			break
		}
		if !inAlphabet(r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Valid reports whether w normalizes to itself with exactly
// game.WordLength letters.
func Valid(w string) bool {
	return utf8.RuneCountInString(w) == game.WordLength && Normalize(w) == w
}

// Complete reports whether raw normalizes to a full-length word.
func Complete(raw string) bool {
	return utf8.RuneCountInString(Normalize(raw)) == game.WordLength
}

func inAlphabet(r rune) bool {
	if r >= 'A' && r <= 'Z' {
		return true
	}
	switch r {
	case 'Ç', 'Ğ', 'İ', 'Ö', 'Ş', 'Ü':
		return true
	}
	return false
}

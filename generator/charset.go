package generator

import (
	"strings"
	"unicode/utf8"
)

const (
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits    = "0123456789"
	Symbols   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	Hex       = "0123456789ABCDEF"

	Alphanumeric = Uppercase + Lowercase + Digits
	ASCII        = Uppercase + Lowercase + Digits + Symbols
)

// Category is one of the character classes complexity enforcement requires.
type Category struct {
	Name     string
	Alphabet string
}

// Categories lists the required classes in the order they are enforced.
var Categories = []Category{
	{Name: "lowercase", Alphabet: Lowercase},
	{Name: "uppercase", Alphabet: Uppercase},
	{Name: "digit", Alphabet: Digits},
	{Name: "symbol", Alphabet: Symbols},
}

// Contains reports whether s has at least one character of the category.
func (c Category) Contains(s string) bool {
	return strings.ContainsAny(s, c.Alphabet)
}

// MissingCategories returns the categories with no representative in s.
func MissingCategories(s string) []Category {
	var missing []Category
	for _, c := range Categories {
		if !c.Contains(s) {
			missing = append(missing, c)
		}
	}
	return missing
}

// categoryOf returns the index into Categories of b, or -1.
func categoryOf(b byte) int {
	for i, c := range Categories {
		if strings.IndexByte(c.Alphabet, b) >= 0 {
			return i
		}
	}
	return -1
}

// nonASCII returns the index of the first byte of s outside 7-bit ASCII,
// or -1. Sampling indexes bytes, so multi-byte characters are refused.
func nonASCII(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return i
		}
	}
	return -1
}

// rejectionLimit is the first byte value that must be discarded so that
// v mod size is uniform over the charset.
func rejectionLimit(size int) int {
	return 256 - 256%size
}

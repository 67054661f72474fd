package nid

import "strings"

// IDLength is the fixed length of an Egyptian National ID.
const IDLength = 14

// Eastern Arabic numerals as printed on the card itself.
var arabicToWestern = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// ToWesternDigits replaces Eastern Arabic numeral glyphs with their
// Western equivalents and leaves every other rune unchanged.
func ToWesternDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if w, ok := arabicToWestern[r]; ok {
			return w
		}
		return r
	}, s)
}

// FilterDigits keeps only ASCII digits.
func FilterDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize transliterates Eastern Arabic numerals, strips everything
// that is not an ASCII digit and cuts the result down to IDLength.
// Sequences longer than IDLength truncate to the first IDLength digits;
// shorter ones are rejected.
func Normalize(text string) (string, bool) {
	digits := FilterDigits(ToWesternDigits(text))
	if len(digits) < IDLength {
		return "", false
	}
	return digits[:IDLength], true
}

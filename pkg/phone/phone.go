// Package phone formats Brazilian phone numbers with area code as the user
// types them.
package phone

import (
	"strings"
	"unicode/utf16"
)

// MaxDigits is the length of a mobile number with area code.
const MaxDigits = 11

// Digits strips everything but ASCII digits.
func Digits(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders v as (DD) DDDD-DDDD for up to 10 digits and (DD) DDDDD-DDDD
// for 11. Partial input only shows the groups that have digits.
func Format(v string) string {
	d := Digits(v)
	if len(d) > MaxDigits {
		d = d[:MaxDigits]
	}
	if d == "" {
		return ""
	}

	middle := 4
	if len(d) > 10 {
		middle = 5
	}

	var b strings.Builder
	b.WriteByte('(')
	if len(d) <= 2 {
		b.WriteString(d)
		return b.String()
	}
	b.WriteString(d[:2])
	b.WriteString(") ")

	rest := d[2:]
	if len(rest) <= middle {
		b.WriteString(rest)
		return b.String()
	}
	b.WriteString(rest[:middle])
	b.WriteByte('-')
	b.WriteString(rest[middle:])
	return b.String()
}

// FormatInput formats an input value and moves the caret past any characters
// the formatting inserted. The caret and lengths are UTF-16 code units, the
// unit of a DOM selection.
func FormatInput(value string, caret int) (string, int) {
	formatted := Format(value)
	if caret < 0 {
		caret = 0
	}
	// formatted is ASCII, so its byte length is its UTF-16 length
	if grew := len(formatted) - UTF16Len(value); grew > 0 {
		caret += grew
	}
	if caret > len(formatted) {
		caret = len(formatted)
	}
	return formatted, caret
}

// UTF16Len is the length of v as a browser string.
func UTF16Len(v string) int {
	n := 0
	for _, r := range v {
		n += utf16.RuneLen(r)
	}
	return n
}

package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "11987654321", Digits("(11) 98765-4321"))
	assert.Equal(t, "", Digits("abc ()-"))
	assert.Equal(t, "12", Digits("1٣2"))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"119876", "(11) 9876"},
		{"1198765", "(11) 9876-5"},
		{"1198765432", "(11) 9876-5432"},
		{"11987654321", "(11) 98765-4321"},
		{"(11) 98765-4321", "(11) 98765-4321"},
		{"(11) 9876-54321", "(11) 98765-4321"},
		{"119876543210", "(11) 98765-4321"},
		{"+55 11 9876", "(55) 1198-76"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	for _, in := range []string{"1", "119", "1198765", "1198765432", "11987654321"} {
		once := Format(in)
		assert.Equal(t, once, Format(once), "input %q", in)
	}
}

func TestFormatInputMovesCaretPastInsertedCharacters(t *testing.T) {
	// typing the third digit inserts "(", ")" and " "
	got, caret := FormatInput("119", 3)
	assert.Equal(t, "(11) 9", got)
	assert.Equal(t, 6, caret)

	// typing the 11th digit at the end reflows the hyphen without growth
	got, caret = FormatInput("(11) 9876-54321", 15)
	assert.Equal(t, "(11) 98765-4321", got)
	assert.Equal(t, 15, caret)

	// deleting keeps the caret where it was
	got, caret = FormatInput("(11) 9876-543", 4)
	assert.Equal(t, "(11) 9876-543", got)
	assert.Equal(t, 4, caret)

	got, caret = FormatInput("", -3)
	assert.Equal(t, "", got)
	assert.Equal(t, 0, caret)
}

func TestFormatInputCountsCaretInUTF16Units(t *testing.T) {
	got, caret := FormatInput("é119", 4)
	assert.Equal(t, "(11) 9", got)
	assert.Equal(t, 6, caret)

	// the emoji is two units, so the value is five units long
	got, caret = FormatInput("😀119", 5)
	assert.Equal(t, "(11) 9", got)
	assert.Equal(t, 6, caret)
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 3, UTF16Len("119"))
	assert.Equal(t, 1, UTF16Len("é"))
	assert.Equal(t, 2, UTF16Len("😀"))
}

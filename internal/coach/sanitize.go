package coach

import "strings"

// MaxUserInputLength bounds raw user input before it is embedded in a prompt.
const MaxUserInputLength = 2000

// Sanitize neutralizes untrusted user text before it is placed inside an
// envelope. Truncation happens on the raw input, so the length limit applies
// to what the user typed and no escape sequence is ever cut in half. Angle
// brackets become entities so no substring of the result can form a tag that
// closes the envelope early. Always returns a string, never fails.
func Sanitize(raw string) string {
	runes := []rune(raw)
	if len(runes) > MaxUserInputLength {
		runes = runes[:MaxUserInputLength]
	}
	s := strings.ReplaceAll(string(runes), "\x00", "")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return strings.TrimSpace(s)
}

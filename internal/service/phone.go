package service

import "strings"

const minPhoneDigits = 10

// NormalizePhone убирает из номера всё, кроме цифр:
// "+996 700 111 222" -> "996700111222".
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validPhone(normalized string) bool {
	return len(normalized) >= minPhoneDigits
}

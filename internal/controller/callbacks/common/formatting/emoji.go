package formatting

import (
	"strconv"
	"strings"
)

var digitEmoji = [...]string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

// DigitsToEmoji заменяет каждую цифру числа на эмодзи
func DigitsToEmoji(n int) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		if r >= '0' && r <= '9' {
			b.WriteString(digitEmoji[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package formatting

import (
	"html"
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// PlainText текст HTML-сообщения так, как его вернёт Telegram: без разметки
// и с раскрытыми сущностями
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(s, "")))
}

func esc(s string) string {
	return html.EscapeString(s)
}

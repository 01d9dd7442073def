package keyboard

import "github.com/go-telegram/bot/models"

// Button описание inline-кнопки: либо callback Data, либо URL
type Button struct {
	Text string
	Data string
	URL  string
}

// Markup описание клавиатуры по рядам, не зависит от транспорта
type Markup [][]Button

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows    Markup
	pending []Button
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{}
}

// Btn создаёт callback-кнопку
func Btn(text, data string) Button {
	return Button{Text: text, Data: data}
}

// URLButton создаёт кнопку с URL
func URLButton(text, url string) Button {
	return Button{Text: text, URL: url}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...Button) *Builder {
	b.flush()
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Add копит кнопки для последующей раскладки через Adjust
func (b *Builder) Add(buttons ...Button) *Builder {
	b.pending = append(b.pending, buttons...)
	return b
}

// Adjust раскладывает накопленные кнопки по рядам заданной ширины.
// Последняя ширина повторяется для оставшихся кнопок.
func (b *Builder) Adjust(sizes ...int) *Builder {
	if len(sizes) == 0 {
		sizes = []int{len(b.pending)}
	}
	i := 0
	for len(b.pending) > 0 {
		size := sizes[min(i, len(sizes)-1)]
		if size <= 0 || size > len(b.pending) {
			size = len(b.pending)
		}
		b.rows = append(b.rows, b.pending[:size:size])
		b.pending = b.pending[size:]
		i++
	}
	b.pending = nil
	return b
}

func (b *Builder) flush() {
	if len(b.pending) > 0 {
		b.Adjust()
	}
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() Markup {
	b.flush()
	return b.rows
}

// ToTelegram переводит описание в разметку Telegram
func (m Markup) ToTelegram() *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(m))
	for _, row := range m {
		out := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			out = append(out, models.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.Data,
				URL:          btn.URL,
			})
		}
		rows = append(rows, out)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// Buttons все кнопки по порядку
func (m Markup) Buttons() []Button {
	var out []Button
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

// Find ищет кнопку по тексту
func (m Markup) Find(text string) (Button, bool) {
	for _, btn := range m.Buttons() {
		if btn.Text == text {
			return btn, true
		}
	}
	return Button{}, false
}

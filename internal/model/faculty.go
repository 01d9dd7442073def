package model

type Faculty struct {
	ID         int64  `json:"id" validate:"required"`
	Title      string `json:"title"`
	ShortTitle string `json:"shortTitle"`
}

// ButtonName короткое название для кнопки
func (f *Faculty) ButtonName() string {
	if f.ShortTitle == "" {
		return "n/a"
	}
	return f.ShortTitle
}

package model

// Subscription подписка пользователя на расписание группы или преподавателя
type Subscription struct {
	ID     string
	UserID string
	Target Subscribable
}

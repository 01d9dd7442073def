package model

// User профиль пользователя на стороне API (users/me)
type User struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// FullName имя и фамилия через пробел
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// AuthRequest данные для регистрации/авторизации аккаунта Telegram
type AuthRequest struct {
	Platform  string         `json:"platform" validate:"required"`
	SocialID  string         `json:"socialId" validate:"required"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	ExtraData map[string]any `json:"extraData,omitempty"`
	Nonce     string         `json:"nonce,omitempty"`
}

// Account привязанный аккаунт соцсети. Created и NonceStatus приходят из meta.
type Account struct {
	ID          int64          `json:"-"`
	Platform    string         `json:"platform"`
	SocialID    string         `json:"socialId"`
	ExtraData   map[string]any `json:"extraData"`
	UserID      string         `json:"-"`
	Created     bool           `json:"-"`
	NonceStatus string         `json:"-"`
}

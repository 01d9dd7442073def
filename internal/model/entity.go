package model

// Branch ветка меню, из которой выбрана сущность
type Branch string

const (
	BranchGroups   Branch = "groups"
	BranchTeachers Branch = "teachers"
)

// Subscribable сущность, на расписание которой можно подписаться (группа или преподаватель)
type Subscribable interface {
	EntityID() int64
	DisplayName() string
	ButtonName() string
	// ExternalLink ссылка на страницу расписания на сайте, может быть пустой
	ExternalLink() string
	// RelationName имя связи в lessons, используется как ключ фильтра
	RelationName() string
	SubscriptionResource() string
	Branch() Branch
}

// SameEntity сравнивает две сущности по ветке и id
func SameEntity(a, b Subscribable) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Branch() == b.Branch() && a.EntityID() == b.EntityID()
}

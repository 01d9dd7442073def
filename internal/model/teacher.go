package model

type Teacher struct {
	ID        int64  `json:"id" validate:"required"`
	FullName  string `json:"fullName" validate:"required"`
	ShortName string `json:"shortName"`
	Link      string `json:"link"`
}

func (t *Teacher) EntityID() int64 { return t.ID }

func (t *Teacher) DisplayName() string { return t.FullName }

// ButtonName короткое имя (Фамилия И.О.), если оно есть
func (t *Teacher) ButtonName() string {
	if t.ShortName == "" {
		return t.FullName
	}
	return t.ShortName
}

func (t *Teacher) ExternalLink() string { return t.Link }

func (t *Teacher) RelationName() string { return "teacher" }

func (t *Teacher) SubscriptionResource() string { return "teacher-subscriptions" }

func (t *Teacher) Branch() Branch { return BranchTeachers }

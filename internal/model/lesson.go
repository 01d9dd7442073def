package model

// Lesson занятие из расписания
type Lesson struct {
	ID        int64    `json:"id" validate:"required"`
	Number    int      `json:"number"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Subject   string   `json:"subject"`
	Classroom string   `json:"classroom"`
	Subgroup  string   `json:"subgroup"` // "0" = вся группа
	GroupID   int64    `json:"-"`
	TeacherID int64    `json:"-"`
	Group     *Group   `json:"-" validate:"-"`
	Teacher   *Teacher `json:"-" validate:"-"`
}

// HasSubgroup занятие только для части группы
func (l *Lesson) HasSubgroup() bool {
	return l.Subgroup != "" && l.Subgroup != "0"
}

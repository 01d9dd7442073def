package model

import "time"

// ReferenceSnapshot снимок справочников для быстрого старта без обращения к API
type ReferenceSnapshot struct {
	Groups   []*Group   `json:"groups"`
	Teachers []*Teacher `json:"teachers"`
	TakenAt  time.Time  `json:"takenAt"`
}

// Empty снимок не содержит данных
func (s *ReferenceSnapshot) Empty() bool {
	return s == nil || (len(s.Groups) == 0 && len(s.Teachers) == 0)
}

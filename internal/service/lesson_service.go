package service

import (
	"context"
	"sort"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/repository"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
)

type LessonService struct {
	lessonRepo *repository.LessonRepository
}

func NewLessonService(lessonRepo *repository.LessonRepository) *LessonService {
	return &LessonService{lessonRepo: lessonRepo}
}

// Lessons занятия сущности за окно, по дате и номеру пары
func (s *LessonService) Lessons(ctx context.Context, target model.Subscribable, w schedule.Window) ([]*model.Lesson, error) {
	lessons, err := s.lessonRepo.ListForWindow(ctx, target, w, nil)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].Date != lessons[j].Date {
			return lessons[i].Date < lessons[j].Date
		}
		return lessons[i].Number < lessons[j].Number
	})
	return lessons, nil
}

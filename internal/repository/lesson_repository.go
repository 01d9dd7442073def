package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/schedule"
)

// Дополнительные фильтры, разрешённые для каждого вида сущности
var allowedLessonFilters = map[string]map[string]bool{
	"group":   {"subgroup": true},
	"teacher": {},
}

type LessonRepository struct {
	api ResourceStore
}

func NewLessonRepository(api ResourceStore) *LessonRepository {
	return &LessonRepository{api: api}
}

// ListForWindow получает занятия сущности за окно дат.
// extra дополнительные фильтры; неразрешённый ключ даёт apiclient.ErrValidation.
func (r *LessonRepository) ListForWindow(ctx context.Context, target model.Subscribable, w schedule.Window, extra map[string]string) ([]*model.Lesson, error) {
	relation := target.RelationName()
	allowed, ok := allowedLessonFilters[relation]
	if !ok {
		return nil, fmt.Errorf("%w: lessons cannot be filtered by %q", apiclient.ErrValidation, relation)
	}

	q := apiclient.NewQuery().
		Filter(relation, strconv.FormatInt(target.EntityID(), 10)).
		Filter("date_from", w.DateFrom()).
		Filter("date_to", w.DateTo())

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed[k] {
			return nil, fmt.Errorf("%w: filter %q not allowed for %s", apiclient.ErrValidation, k, relation)
		}
		q = q.Filter(k, extra[k])
	}

	doc, err := r.api.List(ctx, "lessons", q.Include("group", "teacher"))
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	items, err := doc.Many()
	if err != nil {
		return nil, schemaError("list lessons", err)
	}

	included := doc.IncludedIndex()
	lessons := make([]*model.Lesson, 0, len(items))
	for i := range items {
		l, err := lessonFromResource(&items[i], included)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}

	return lessons, nil
}

func lessonFromResource(res *apiclient.Resource, included apiclient.Included) (*model.Lesson, error) {
	var l model.Lesson
	err := decodeValid("decode lesson", res, &l, func() error {
		id, err := parseID(res)
		if err != nil {
			return err
		}
		l.ID = id

		if l.GroupID, _, err = relatedID(res, "group"); err != nil {
			return err
		}
		if l.TeacherID, _, err = relatedID(res, "teacher"); err != nil {
			return err
		}

		// included без связей не считаем ошибкой схемы, просто не показываем
		if ref, ok := res.Related("group"); ok {
			if gres, ok := included.Lookup(ref); ok {
				if g, err := groupFromResource(gres, included); err == nil {
					l.Group = g
				}
			}
		}
		if ref, ok := res.Related("teacher"); ok {
			if tres, ok := included.Lookup(ref); ok {
				if t, err := teacherFromResource(tres); err == nil {
					l.Teacher = t
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

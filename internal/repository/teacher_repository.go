package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

type TeacherRepository struct {
	api ResourceStore
}

func NewTeacherRepository(api ResourceStore) *TeacherRepository {
	return &TeacherRepository{api: api}
}

// List получает всех преподавателей
func (r *TeacherRepository) List(ctx context.Context) ([]*model.Teacher, error) {
	doc, err := r.api.List(ctx, "teachers", apiclient.NewQuery())
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	items, err := doc.Many()
	if err != nil {
		return nil, schemaError("list teachers", err)
	}

	teachers := make([]*model.Teacher, 0, len(items))
	for i := range items {
		t, err := teacherFromResource(&items[i])
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}

	return teachers, nil
}

// GetByID получает преподавателя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	doc, err := r.api.Get(ctx, "teachers", fmt.Sprint(id), apiclient.NewQuery())
	if err != nil {
		return nil, fmt.Errorf("get teacher %d: %w", id, err)
	}

	res, err := doc.One()
	if err != nil {
		return nil, schemaError("get teacher", err)
	}
	return teacherFromResource(res)
}

package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

type GroupRepository struct {
	api ResourceStore
}

func NewGroupRepository(api ResourceStore) *GroupRepository {
	return &GroupRepository{api: api}
}

// List получает все группы вместе с факультетами
func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	doc, err := r.api.List(ctx, "groups", apiclient.NewQuery().Include("faculty"))
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	items, err := doc.Many()
	if err != nil {
		return nil, schemaError("list groups", err)
	}

	included := doc.IncludedIndex()
	groups := make([]*model.Group, 0, len(items))
	for i := range items {
		g, err := groupFromResource(&items[i], included)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, nil
}

// GetByID получает группу по ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	doc, err := r.api.Get(ctx, "groups", fmt.Sprint(id), apiclient.NewQuery().Include("faculty"))
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}

	res, err := doc.One()
	if err != nil {
		return nil, schemaError("get group", err)
	}
	return groupFromResource(res, doc.IncludedIndex())
}

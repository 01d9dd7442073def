package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

const currentUserPath = "users/me"

type UserRepository struct {
	api ResourceStore
}

func NewUserRepository(api ResourceStore) *UserRepository {
	return &UserRepository{api: api}
}

// Me получает профиль пользователя из контекста
func (r *UserRepository) Me(ctx context.Context) (*model.User, error) {
	doc, err := r.api.Get(ctx, currentUserPath, "", apiclient.NewQuery())
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}

	res, err := doc.One()
	if err != nil {
		return nil, schemaError("get current user", err)
	}

	var u model.User
	err = decodeValid("decode user", res, &u, func() error {
		u.ID = res.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

const (
	authPath          = "auth/"
	authWithNoncePath = "auth_with_nonce/"
)

type AccountRepository struct {
	api ResourceStore
}

func NewAccountRepository(api ResourceStore) *AccountRepository {
	return &AccountRepository{api: api}
}

// GetOrCreate регистрирует аккаунт или возвращает существующий.
// С nonce используется отдельный endpoint (вход на сайт через бота).
func (r *AccountRepository) GetOrCreate(ctx context.Context, req model.AuthRequest) (*model.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apiclient.ErrValidation, err)
	}

	res, err := apiclient.NewResource("social-accounts", req)
	if err != nil {
		return nil, err
	}

	path := authPath
	if req.Nonce != "" {
		path = authWithNoncePath
	}

	doc, err := r.api.Post(ctx, path, res)
	if err != nil {
		return nil, fmt.Errorf("auth account: %w", err)
	}

	out, err := doc.One()
	if err != nil {
		return nil, schemaError("auth account", err)
	}

	var acc model.Account
	err = decodeValid("decode account", out, &acc, func() (err error) {
		acc.ID, err = parseID(out)
		if ref, ok := out.Related("user"); ok {
			acc.UserID = ref.ID
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	acc.Created = out.MetaBool("created")
	acc.NonceStatus = out.MetaString("nonceStatus")

	return &acc, nil
}

package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/unischedule_bot/internal/apiclient"
	"github.com/Freeeeeet/unischedule_bot/internal/model"
)

type SubscriptionRepository struct {
	api      ResourceStore
	groups   *GroupRepository
	teachers *TeacherRepository
}

func NewSubscriptionRepository(api ResourceStore) *SubscriptionRepository {
	return &SubscriptionRepository{
		api:      api,
		groups:   NewGroupRepository(api),
		teachers: NewTeacherRepository(api),
	}
}

// ListMine получает подписки пользователя из контекста (запрос подписывается HMAC)
func (r *SubscriptionRepository) ListMine(ctx context.Context) ([]*model.Subscription, error) {
	q := apiclient.NewQuery().Include("group", "teacher")
	doc, err := r.api.List(ctx, "subscriptions", q)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	items, err := doc.Many()
	if err != nil {
		return nil, schemaError("list subscriptions", err)
	}

	included := doc.IncludedIndex()
	subs := make([]*model.Subscription, 0, len(items))
	for i := range items {
		sub, err := r.subscriptionFromResource(ctx, &items[i], included)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			subs = append(subs, sub)
		}
	}

	return subs, nil
}

// subscriptionFromResource ищет объект подписки в included, при отсутствии догружает его.
// Подписка без group/teacher пропускается.
func (r *SubscriptionRepository) subscriptionFromResource(ctx context.Context, res *apiclient.Resource, included apiclient.Included) (*model.Subscription, error) {
	sub := &model.Subscription{ID: res.ID}
	if ref, ok := res.Related("user"); ok {
		sub.UserID = ref.ID
	}

	if ref, ok := res.Related("group"); ok {
		if gres, found := included.Lookup(ref); found {
			g, err := groupFromResource(gres, included)
			if err != nil {
				return nil, err
			}
			sub.Target = g
			return sub, nil
		}
		id, err := strconv.ParseInt(ref.ID, 10, 64)
		if err != nil {
			return nil, schemaError("decode subscription", err)
		}
		g, err := r.groups.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		sub.Target = g
		return sub, nil
	}

	if ref, ok := res.Related("teacher"); ok {
		if tres, found := included.Lookup(ref); found {
			t, err := teacherFromResource(tres)
			if err != nil {
				return nil, err
			}
			sub.Target = t
			return sub, nil
		}
		id, err := strconv.ParseInt(ref.ID, 10, 64)
		if err != nil {
			return nil, schemaError("decode subscription", err)
		}
		t, err := r.teachers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		sub.Target = t
		return sub, nil
	}

	return nil, nil
}

// Create создаёт подписку на сущность. Предыдущую подписку заменяет сервер.
func (r *SubscriptionRepository) Create(ctx context.Context, target model.Subscribable) (*model.Subscription, error) {
	res, err := apiclient.NewResource(target.SubscriptionResource(), struct{}{})
	if err != nil {
		return nil, err
	}
	res = res.WithRelation(target.RelationName(), apiclient.Identifier{
		Type: string(target.Branch()),
		ID:   strconv.FormatInt(target.EntityID(), 10),
	})

	doc, err := r.api.Create(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", target.SubscriptionResource(), err)
	}

	created, err := doc.One()
	if err != nil {
		return nil, schemaError("create subscription", err)
	}

	sub := &model.Subscription{ID: created.ID, Target: target}
	if ref, ok := created.Related("user"); ok {
		sub.UserID = ref.ID
	}
	return sub, nil
}

// Delete удаляет подписку по ID
func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, "subscriptions", id); err != nil {
		return fmt.Errorf("delete subscription %s: %w", id, err)
	}
	return nil
}

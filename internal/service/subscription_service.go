package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/repository"
	"go.uber.org/zap"
)

type SubscriptionService struct {
	subscriptionRepo *repository.SubscriptionRepository
	logger           *zap.Logger
}

func NewSubscriptionService(subscriptionRepo *repository.SubscriptionRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Current возвращает активную подписку пользователя или nil.
// API гарантирует не более одной подписки, берём первую.
func (s *SubscriptionService) Current(ctx context.Context) (*model.Subscription, error) {
	subs, err := s.subscriptionRepo.ListMine(ctx)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return subs[0], nil
}

// SubscriptionTo возвращает подписку пользователя на сущность или nil
func (s *SubscriptionService) SubscriptionTo(ctx context.Context, target model.Subscribable) (*model.Subscription, error) {
	subs, err := s.subscriptionRepo.ListMine(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if model.SameEntity(sub.Target, target) {
			return sub, nil
		}
	}
	return nil, nil
}

// Subscribe подписывает пользователя на сущность
func (s *SubscriptionService) Subscribe(ctx context.Context, target model.Subscribable) (*model.Subscription, error) {
	sub, err := s.subscriptionRepo.Create(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	s.logger.Info("Subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("branch", string(target.Branch())),
		zap.Int64("entity_id", target.EntityID()))

	return sub, nil
}

// Unsubscribe отменяет подписку
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriptionID string) error {
	if err := s.subscriptionRepo.Delete(ctx, subscriptionID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}

	s.logger.Info("Subscription deleted", zap.String("subscription_id", subscriptionID))
	return nil
}

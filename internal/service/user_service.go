package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/repository"
	"go.uber.org/zap"
)

// TelegramUser данные отправителя из апдейта
type TelegramUser struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsPremium    bool
}

type UserService struct {
	userRepo    *repository.UserRepository
	accountRepo *repository.AccountRepository
	platform    string
	logger      *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, accountRepo *repository.AccountRepository, platform string, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		platform:    platform,
		logger:      logger,
	}
}

// Authenticate регистрирует аккаунт Telegram или находит существующий.
// nonce приходит из deep-link /start и подтверждает вход на сайте.
func (s *UserService) Authenticate(ctx context.Context, tg TelegramUser, nonce string) (*model.Account, error) {
	firstName := tg.FirstName
	if firstName == "" {
		firstName = "Anonymous"
	}

	acc, err := s.accountRepo.GetOrCreate(ctx, model.AuthRequest{
		Platform:  s.platform,
		SocialID:  strconv.FormatInt(tg.ID, 10),
		FirstName: firstName,
		LastName:  tg.LastName,
		ExtraData: map[string]any{
			"username":      tg.Username,
			"language_code": tg.LanguageCode,
			"is_premium":    tg.IsPremium,
		},
		Nonce: nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("authenticate %d: %w", tg.ID, err)
	}

	if acc.Created {
		s.logger.Info("New user registered",
			zap.Int64("telegram_id", tg.ID),
			zap.String("user_id", acc.UserID))
	}

	return acc, nil
}

// Profile профиль текущего пользователя
func (s *UserService) Profile(ctx context.Context) (*model.User, error) {
	return s.userRepo.Me(ctx)
}

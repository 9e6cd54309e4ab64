package user

import (
	"context"
	"strings"

	"vastra-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (string, User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetByID(ctx context.Context, id uint) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, name, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, name, strings.ToLower(email), hashed, string(RoleUser))
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return "", User{}, ErrEmailExists
		}
		return "", User{}, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", User{}, err
	}

	log.Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	return token, u, err
}

func (s *service) GetByID(ctx context.Context, id uint) (User, error) {
	return s.repo.FindByID(ctx, id)
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository"
)

const maxPushTokenLength = 255

type PushTokensService struct {
	repo repository.PushTokensRepositoryI
}

func NewPushTokensService(repo repository.PushTokensRepositoryI) *PushTokensService {
	if repo == nil {
		log.Fatal("provided nil pushTokensRepo")
	}
	return &PushTokensService{
		repo: repo,
	}
}

// Register binds token to uid. Registering the same token twice is a no-op.
func (ps *PushTokensService) Register(ctx context.Context, uid uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > maxPushTokenLength {
		return errorvalues.ErrValidation
	}
	err := ps.repo.Save(ctx, uid, token)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("push tokens repository error: " + err.Error())
	}
	return nil
}

func (ps *PushTokensService) Unregister(ctx context.Context, uid uuid.UUID, token string) error {
	err := ps.repo.Delete(ctx, uid, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, errorvalues.ErrTokenNotFound) {
			return err
		}
		return errors.New("push tokens repository error: " + err.Error())
	}
	return nil
}

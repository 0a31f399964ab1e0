package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/application/mapper"
	"stocktalk-service/internal/application/query"
	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/repositories"
)

type UserService struct {
	userRepo     repositories.UserRepository
	tokens       interfaces.TokenIssuer
	profileCache interfaces.ProfileCache
	loginLimiter interfaces.Limiter
	cacheTTL     time.Duration
}

func NewUserService(
	userRepo repositories.UserRepository,
	tokens interfaces.TokenIssuer,
	profileCache interfaces.ProfileCache,
	loginLimiter interfaces.Limiter,
	cacheTTL time.Duration,
) interfaces.UserService {
	return &UserService{
		userRepo:     userRepo,
		tokens:       tokens,
		profileCache: profileCache,
		loginLimiter: loginLimiter,
		cacheTTL:     cacheTTL,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, registerCommand *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error) {
	newUser := entities.NewUser(registerCommand.Username, registerCommand.Email, registerCommand.Password)
	validatedUser, err := entities.NewValidatedUser(newUser)
	if err != nil {
		return nil, err
	}

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, newUser.Email)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return nil, err
	}
	if existingUser != nil {
		return nil, fmt.Errorf("%w: email %s", entities.ErrConflict, newUser.Email)
	}

	if err := newUser.HashPassword(); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The unique email index still guards against a concurrent registration.
	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(createdUser.Id)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &command.RegisterUserCommandResult{
		Token:  token,
		UserId: createdUser.Id,
	}, nil
}

func (s *UserService) LoginUser(ctx context.Context, loginCommand *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	email := strings.ToLower(strings.TrimSpace(loginCommand.Email))

	if s.loginLimiter != nil && !s.loginLimiter.Allow("login:"+email) {
		return nil, entities.ErrTooManyRequests
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", entities.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := user.CheckPassword(loginCommand.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", entities.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateToken(user.Id)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &command.LoginUserCommandResult{
		Token: token,
		User:  mapper.NewUserSummaryFromEntity(user),
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*query.UserQueryResult, error) {
	// First, try to get the profile from Redis cache
	if s.profileCache != nil {
		cachedUser, err := s.profileCache.GetProfile(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("profile cache read failed")
		}
		if cachedUser != nil {
			return &query.UserQueryResult{Result: mapper.NewUserResultFromEntity(cachedUser)}, nil
		}
	}

	user, err := s.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.profileCache != nil {
		if err := s.profileCache.SetProfile(ctx, user, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache user profile")
		}
	}

	return &query.UserQueryResult{Result: mapper.NewUserResultFromEntity(user)}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, updateCommand *command.UpdateProfileCommand) (*command.UpdateProfileCommandResult, error) {
	if updateCommand.RequesterId == "" {
		return nil, entities.ErrUnauthorized
	}

	user, err := s.userRepo.FindById(ctx, updateCommand.RequesterId)
	if err != nil {
		return nil, err
	}

	err = user.ApplyProfileChanges(entities.ProfileChanges{
		Username:       updateCommand.Username,
		Bio:            updateCommand.Bio,
		ProfilePicture: updateCommand.ProfilePicture,
		Password:       updateCommand.Password,
	})
	if err != nil {
		return nil, err
	}

	validatedUser, err := entities.NewValidatedUser(user)
	if err != nil {
		return nil, err
	}

	updatedUser, err := s.userRepo.Update(ctx, validatedUser)
	if err != nil {
		return nil, err
	}

	if s.profileCache != nil {
		if err := s.profileCache.DeleteProfile(ctx, updatedUser.Id); err != nil {
			log.Warn().Err(err).Str("user_id", updatedUser.Id).Msg("failed to invalidate cached profile")
		}
	}

	return &command.UpdateProfileCommandResult{
		User: mapper.NewProfileSummaryFromEntity(updatedUser),
	}, nil
}

package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/errors"
	"foodstore/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity IdentityProvider
	tokens   TokenIssuer
	hashCost int
}

func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityProvider, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if err := uc.ensureAvailable(ctx, email, username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.hashCost)
	if err != nil {
		return nil, errors.Validation("Password cannot be hashed", err)
	}

	uid, err := uc.identity.CreateUser(ctx, email, input.Password, username)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.StoreFailure("Failed to create user in authentication provider", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uid,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if rbErr := uc.identity.DeleteUser(ctx, uid); rbErr != nil {
			logger.WithError(rbErr).WithFields(map[string]interface{}{"uid": uid}).Error("orphaned identity after failed registration")
		}
		return nil, err
	}

	logger.WithFields(map[string]interface{}{"uid": uid, "username": username}).Info("user registered")

	return uc.issue(user)
}

func (uc *AuthUseCase) ensureAvailable(ctx context.Context, email, username string) error {
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return errors.Conflict("Email already registered")
	} else if !errors.Is(err, errors.CodeNotFound) {
		return err
	}

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return errors.Conflict("Username already taken")
	} else if !errors.Is(err, errors.CodeNotFound) {
		return err
	}

	return nil
}

func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid password", nil)
	}

	logger.WithFields(map[string]interface{}{"uid": user.ID}).Info("user logged in")

	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := uc.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, errors.New("TOKEN_ERROR", "Failed to issue session token", 500, err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/repository"
)

type AuthService interface {
	// SignUp creates the account and returns a session token.
	SignUp(ctx context.Context, name, email, password string) (string, *model.User, error)
	// SignIn verifies credentials and returns a session token. When a
	// session cart id is given, that cart is claimed by the user and any
	// cart the user had before is discarded.
	SignIn(ctx context.Context, email, password, sessionCartID string) (string, *model.User, error)
	ParseToken(token string) (userID string, role string, err error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type authService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	email    EmailService
	cfg      config.Auth
	baseURL  string
}

func NewAuthService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	email EmailService,
	cfg config.Auth,
	baseURL string,
) AuthService {
	return &authService{
		userRepo: userRepo,
		cartRepo: cartRepo,
		email:    email,
		cfg:      cfg,
		baseURL:  baseURL,
	}
}

func (s *authService) SignUp(ctx context.Context, name, email, password string) (string, *model.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password, sessionCartID string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// guest cart from this browser session becomes the user's cart
	if sessionCartID != "" {
		if cart, err := s.cartRepo.FindBySessionID(ctx, sessionCartID); err == nil {
			if err := s.cartRepo.AssignUser(ctx, cart.ID, user.ID); err != nil {
				return "", nil, fmt.Errorf("merge session cart: %w", err)
			}
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"typ":  "session",
		"exp":  time.Now().Add(time.Duration(s.cfg.SessionMaxAge) * time.Second).Unix(),
	})

	signed, err := t.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

func (s *authService) ParseToken(token string) (string, string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if claims["typ"] != "session" {
		return "", "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return sub, role, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token := uuid.NewString()
	expires := time.Now().Add(time.Hour)
	err = s.userRepo.Updates(ctx, user.ID,
		&model.User{ResetToken: &token, ResetTokenExpiresAt: &expires},
		[]string{"reset_token", "reset_token_expires_at"})
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(token))

	return s.email.SendResetPassword(user.Email, resetURL)
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return ErrInvalidToken
	}

	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// nil token fields under Select burn the token
	err = s.userRepo.Updates(ctx, user.ID,
		&model.User{Password: string(hash)},
		[]string{"password", "reset_token", "reset_token_expires_at"})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return s.email.SendPasswordChanged(user.Name, user.Email)
}

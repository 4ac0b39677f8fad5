package services

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	appErr "github.com/collabhub/hub/pkg/errors"
	"github.com/collabhub/hub/pkg/logger"
)

// TokenTTL is how long issued access tokens stay valid.
const TokenTTL = 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Refresh(ctx context.Context, tokenString string) (string, *models.User, error)
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Kind        models.ProfileKind
	DisplayName string
}

type authService struct {
	users      repository.UserRepository
	hmacSecret []byte
}

func NewAuthService(users repository.UserRepository, secret []byte) AuthService {
	return &authService{users: users, hmacSecret: secret}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if input.Username == "" {
		return nil, appErr.Invalid("username", "username is required")
	}
	if input.Email == "" {
		return nil, appErr.Invalid("email", "email is required")
	}
	if len(input.Password) < 8 {
		return nil, appErr.Invalid("password", "password must be at least 8 characters")
	}
	kind := input.Kind
	if kind == "" {
		kind = models.ProfileHuman
	}
	if kind != models.ProfileHuman && kind != models.ProfileAgent {
		return nil, appErr.Invalid("kind", "unknown profile kind")
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	u := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(ph),
		Profile: &models.UserProfile{
			Kind:        kind,
			DisplayName: input.DisplayName,
		},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, appErr.Duplicate("user")
		}
		return nil, err
	}

	logger.L().Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var u models.User
	if err := s.users.GetByEmail(ctx, email, &u); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}

	tokenString, err := s.issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return tokenString, &u, nil
}

// Refresh exchanges a still-valid token for a fresh one.
func (s *authService) Refresh(ctx context.Context, tokenString string) (string, *models.User, error) {
	userID, err := ParseSubject(tokenString, s.hmacSecret)
	if err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	var u models.User
	if err := s.users.GetByID(ctx, userID, &u); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	fresh, err := s.issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	return fresh, &u, nil
}

func (s *authService) issue(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(TokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}

// ParseSubject validates a token and returns the user id it carries.
func ParseSubject(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	return uint(id), nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	autherrors "go-welfare/internal/auth/errors"
	"go-welfare/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (TokenPairResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (TokenPairResponse, error)
	GetMe(ctx context.Context, userID string) (MeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (TokenPairResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// bcrypt compare against a dummy hash keeps the timing of the
			// unknown-email path close to the wrong-password path
			bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0q0kC3qS9zvO7dY0mJmZbRrTOeu"), []byte(req.Password))
			return TokenPairResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return TokenPairResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.String("user_id", u.ID.String()))
		return TokenPairResponse{}, autherrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(u)
	if err != nil {
		s.logger.Error("token issue failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return TokenPairResponse{}, err
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))

	return pair, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (TokenPairResponse, error) {
	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return TokenPairResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenPairResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != "refresh" {
		return TokenPairResponse{}, autherrors.ErrInvalidRefreshToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return TokenPairResponse{}, autherrors.ErrInvalidRefreshToken
	}

	// reload so role and department changes take effect on rotation
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPairResponse{}, autherrors.ErrAccountNotFound
		}
		s.logger.Error("refresh lookup failed", zap.String("user_id", userID), zap.Error(err))
		return TokenPairResponse{}, err
	}

	pair, err := s.issueTokenPair(u)
	if err != nil {
		s.logger.Error("token issue failed", zap.String("user_id", userID), zap.Error(err))
		return TokenPairResponse{}, err
	}

	return pair, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (MeResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MeResponse{}, autherrors.ErrAccountNotFound
		}
		s.logger.Error("me lookup failed", zap.String("user_id", userID), zap.Error(err))
		return MeResponse{}, err
	}

	return MeResponse{
		ID:           u.ID.String(),
		EmployeeID:   u.EmployeeID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID.String(),
	}, nil
}

func (s *service) issueTokenPair(u *user.User) (TokenPairResponse, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":       u.ID.String(),
		"role":          u.Role,
		"department_id": u.DepartmentID.String(),
		"iat":           now.Unix(),
		"exp":           now.Add(accessTokenTTL).Unix(),
	})
	accessString, err := access.SignedString(secret)
	if err != nil {
		return TokenPairResponse{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    u.ID.String(),
		"token_type": "refresh",
		"iat":        now.Unix(),
		"exp":        now.Add(refreshTokenTTL).Unix(),
	})
	refreshString, err := refresh.SignedString(secret)
	if err != nil {
		return TokenPairResponse{}, err
	}

	return TokenPairResponse{AccessToken: accessString, RefreshToken: refreshString}, nil
}

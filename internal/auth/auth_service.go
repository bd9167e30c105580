package auth

import (
	"context"
	"errors"

	autherrors "github.com/mdvohra/LMS-app/internal/auth/errors"
	"github.com/mdvohra/LMS-app/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (session.Session, AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	repo     Repository
	sessions session.Store
	logger   *zap.Logger
}

func NewService(repo Repository, sessions session.Store, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, sessions: sessions, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	user := &User{
		ID:       uuid.New(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if IsUniqueViolation(err) {
			s.logger.Warn("registration rejected, duplicate user", zap.String("username", req.Username))
			return AuthResponse{}, autherrors.ErrUserAlreadyExists
		}
		s.logger.Error("registration persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	return mapToResponse(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (session.Session, AuthResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session.Session{}, AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return session.Session{}, AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return session.Session{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID.String(), user.Username, user.Role)
	if err != nil {
		s.logger.Error("session create failed", zap.Error(err))
		return session.Session{}, AuthResponse{}, err
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	return sess, mapToResponse(user), nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		s.logger.Error("session destroy failed", zap.Error(err))
		return err
	}
	s.logger.Info("user logged out")
	return nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	return mapToResponse(user), nil
}

func mapToResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

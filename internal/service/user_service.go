package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"auth-api/internal/domain"
	"auth-api/internal/repository"
)

// Costo fijo de bcrypt para registro, igual que el servicio original.
const bcryptCost = 14

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	usersV2 repository.UserV2Repository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, usersV2 repository.UserV2Repository) *UserService {
	return &UserService{
		logger:  logger,
		users:   users,
		usersV2: usersV2,
	}
}

type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Phone      string
	AcctType   string
	ImageURL   string
	OAuthToken string
}

// Register crea un usuario nuevo si no existe otro con el mismo email.
//
// Orden de fallos: credencial ausente, luego existencia, luego insert.
// El UNIQUE sobre users.email es la señal autoritativa de conflicto; el
// pre-check solo conserva el orden observable.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	oauthToken := strings.TrimSpace(input.OAuthToken)

	if password == "" && oauthToken == "" {
		return domain.User{}, ErrCredentialMissing
	}

	passwordHash := ""
	if oauthToken == "" {
		hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return domain.User{}, err
		}
		passwordHash = string(hashBytes)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: passwordHash,
		OAuthToken:   oauthToken,
		Phone:        strings.TrimSpace(input.Phone),
		AcctType:     strings.TrimSpace(input.AcctType),
		ImageURL:     strings.TrimSpace(input.ImageURL),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	return created.Sanitized(), nil
}

type CreateV2UserInput struct {
	Name         string
	Email        string
	ImageURL     string
	Nickname     string
	AcctType     string
	Phone        string
	Sub          string
	StripeCustID string
}

// CreateV2User da de alta un registro legacy; el duplicado se decide por (email, sub).
func (s *UserService) CreateV2User(ctx context.Context, input CreateV2UserInput) (domain.UserV2, error) {
	if s.usersV2 == nil {
		return domain.UserV2{}, errors.New("user service not configured")
	}

	email := normalizeEmail(input.Email)

	if _, err := s.usersV2.GetByEmailAndSub(ctx, email, input.Sub); err == nil {
		return domain.UserV2{}, ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.UserV2{}, err
	}

	user := domain.UserV2{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		Nickname:     strings.TrimSpace(input.Nickname),
		AcctType:     strings.TrimSpace(input.AcctType),
		Phone:        strings.TrimSpace(input.Phone),
		Sub:          strings.TrimSpace(input.Sub),
		StripeCustID: strings.TrimSpace(input.StripeCustID),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.usersV2.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.UserV2{}, ErrUserExists
		}
		return domain.UserV2{}, err
	}

	return s.usersV2.GetByID(ctx, user.ID)
}

// ListV2Users devuelve todos los registros legacy, sin filtro ni paginación.
func (s *UserService) ListV2Users(ctx context.Context) ([]domain.UserV2, error) {
	if s.usersV2 == nil {
		return nil, errors.New("user service not configured")
	}
	return s.usersV2.List(ctx)
}

// RemoveV2User borra por id y devuelve el registro eliminado.
func (s *UserService) RemoveV2User(ctx context.Context, id string) (domain.UserV2, error) {
	if s.usersV2 == nil {
		return domain.UserV2{}, errors.New("user service not configured")
	}
	removed, err := s.usersV2.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserV2{}, ErrUserNotFound
	}
	return removed, err
}

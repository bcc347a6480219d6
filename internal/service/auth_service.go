package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"auth-api/internal/domain"
	"auth-api/internal/repository"
)

// AuthService verifica credenciales de login y pide el token de sesión.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	issuer TokenIssuer
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, issuer TokenIssuer) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		issuer: issuer,
	}
}

type LoginInput struct {
	Email      string
	Password   string
	OAuthToken string
}

var (
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenIssuance      = errors.New("token issuance failed")
	ErrCredentialMissing  = errors.New("credential required")
	ErrUserExists         = errors.New("user already exists")
)

// Login resuelve el flujo de verificación de credenciales.
//
// Orden de ramas: primero la búsqueda por email solo (candidato primario),
// luego la rama OAuth por (oauth_token, email), que gana y corta el flujo
// cuando matchea; si no, la vía de password corre contra el candidato
// primario aunque la búsqueda OAuth haya apuntado a otro registro.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (domain.User, string, error) {
	if s.users == nil || s.issuer == nil {
		return domain.User{}, "", errors.New("auth service not configured")
	}

	email := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	oauthToken := strings.TrimSpace(input.OAuthToken)

	primary, err := s.users.GetByEmail(ctx, email)
	primaryFound := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", err
	}

	if oauthToken != "" {
		oauthUser, err := s.users.GetByOAuth(ctx, oauthToken, email)
		switch {
		case err == nil:
			token, err := s.issuer.Generate(oauthUser)
			if err != nil || token == "" {
				if s.logger != nil {
					s.logger.Error("oauth token issuance failed", zap.Error(err), zap.String("user_id", oauthUser.ID))
				}
				return domain.User{}, "", ErrTokenIssuance
			}
			return oauthUser.Sanitized(), token, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, "", err
		}
		// sin match (token, email): continúa la vía de password
	}

	if !primaryFound {
		return domain.User{}, "", ErrUserNotFound
	}

	// Un password ausente o un registro solo-OAuth (hash vacío) nunca
	// matchean; bcrypt devuelve error en vez de entrar en pánico.
	if bcrypt.CompareHashAndPassword([]byte(primary.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Generate(primary)
	if err != nil || token == "" {
		if s.logger != nil {
			s.logger.Error("token issuance failed", zap.Error(err), zap.String("user_id", primary.ID))
		}
		return domain.User{}, "", ErrTokenIssuance
	}

	return primary.Sanitized(), token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"auth-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByOAuth(ctx context.Context, oauthToken, email string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, first_name, last_name, email,
	COALESCE(password, ''), COALESCE(oauth_token, ''),
	COALESCE(phone, ''), COALESCE(acct_type, ''), COALESCE(image_url, ''),
	created_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, first_name, last_name, email, password, oauth_token, phone, acct_type, image_url, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.OAuthToken,
		user.Phone,
		user.AcctType,
		user.ImageURL,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByOAuth(ctx context.Context, oauthToken, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE oauth_token = $1 AND email = $2`
	return r.scanUser(r.pool.QueryRow(ctx, query, oauthToken, email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgUserRepository) scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.OAuthToken,
		&u.Phone,
		&u.AcctType,
		&u.ImageURL,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

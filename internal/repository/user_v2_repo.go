package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"auth-api/internal/domain"
)

// UserV2Repository define el contrato de persistencia para la tabla legacy users_v2.
type UserV2Repository interface {
	Create(ctx context.Context, user domain.UserV2) error
	GetByID(ctx context.Context, id string) (domain.UserV2, error)
	GetByEmailAndSub(ctx context.Context, email, sub string) (domain.UserV2, error)
	List(ctx context.Context) ([]domain.UserV2, error)
	Delete(ctx context.Context, id string) (domain.UserV2, error)
}

// PgUserV2Repository implementa UserV2Repository usando pgxpool.
type PgUserV2Repository struct {
	pool *pgxpool.Pool
}

func NewPgUserV2Repository(pool *pgxpool.Pool) *PgUserV2Repository {
	return &PgUserV2Repository{pool: pool}
}

const userV2Columns = `
	id, name, email, image_url, nickname,
	COALESCE(acct_type, ''), COALESCE(phone, ''), sub, COALESCE(stripe_cust_id, ''),
	created_at
`

func (r *PgUserV2Repository) Create(ctx context.Context, user domain.UserV2) error {
	const query = `
		INSERT INTO users_v2 (id, name, email, image_url, nickname, acct_type, phone, sub, stripe_cust_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, ''), $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.ImageURL,
		user.Nickname,
		user.AcctType,
		user.Phone,
		user.Sub,
		user.StripeCustID,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserV2Repository) GetByID(ctx context.Context, id string) (domain.UserV2, error) {
	const query = `SELECT ` + userV2Columns + ` FROM users_v2 WHERE id = $1`
	return r.scanUserV2(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserV2Repository) GetByEmailAndSub(ctx context.Context, email, sub string) (domain.UserV2, error) {
	const query = `SELECT ` + userV2Columns + ` FROM users_v2 WHERE email = $1 AND sub = $2`
	return r.scanUserV2(r.pool.QueryRow(ctx, query, email, sub))
}

func (r *PgUserV2Repository) List(ctx context.Context) ([]domain.UserV2, error) {
	const query = `SELECT ` + userV2Columns + ` FROM users_v2 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserV2, 0)
	for rows.Next() {
		u, err := r.scanUserV2(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserV2Repository) Delete(ctx context.Context, id string) (domain.UserV2, error) {
	const query = `DELETE FROM users_v2 WHERE id = $1 RETURNING ` + userV2Columns
	return r.scanUserV2(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserV2Repository) scanUserV2(row rowScanner) (domain.UserV2, error) {
	var u domain.UserV2
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.ImageURL,
		&u.Nickname,
		&u.AcctType,
		&u.Phone,
		&u.Sub,
		&u.StripeCustID,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.UserV2{}, err
	}
	return u, nil
}

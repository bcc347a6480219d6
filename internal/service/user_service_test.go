package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"auth-api/internal/domain"
)

type mockUserV2Repo struct {
	usersByID map[string]domain.UserV2
	createErr error
}

func newMockUserV2Repo() *mockUserV2Repo {
	return &mockUserV2Repo{usersByID: make(map[string]domain.UserV2)}
}

func (m *mockUserV2Repo) Create(_ context.Context, user domain.UserV2) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserV2Repo) GetByID(_ context.Context, id string) (domain.UserV2, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.UserV2{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserV2Repo) GetByEmailAndSub(_ context.Context, email, sub string) (domain.UserV2, error) {
	for _, user := range m.usersByID {
		if user.Email == email && user.Sub == sub {
			return user, nil
		}
	}
	return domain.UserV2{}, pgx.ErrNoRows
}

func (m *mockUserV2Repo) List(_ context.Context) ([]domain.UserV2, error) {
	users := make([]domain.UserV2, 0, len(m.usersByID))
	for _, user := range m.usersByID {
		users = append(users, user)
	}
	return users, nil
}

func (m *mockUserV2Repo) Delete(_ context.Context, id string) (domain.UserV2, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.UserV2{}, pgx.ErrNoRows
	}
	delete(m.usersByID, id)
	return user, nil
}

func TestUserServiceRegister_HashesPasswordAndSanitizes(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, newMockUserV2Repo())

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@x.com",
		Password:  "pw123456",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected sanitized user")
	}

	stored, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pw123456" {
		t.Fatalf("expected stored hash, got %q", stored.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123456")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserServiceRegister_OAuthLeavesPasswordNull(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, newMockUserV2Repo())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName:  "A",
		LastName:   "B",
		Email:      "a@x.com",
		Password:   "ignored when oauth",
		OAuthToken: "ot-1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.PasswordHash != "" {
		t.Fatalf("expected empty hash for oauth registration, got %q", stored.PasswordHash)
	}
	if stored.OAuthToken != "ot-1" {
		t.Fatalf("expected oauth linkage, got %q", stored.OAuthToken)
	}
}

func TestUserServiceRegister_CredentialMissing(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), newMockUserV2Repo())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@x.com",
	})
	if !errors.Is(err, ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
}

func TestUserServiceRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, newMockUserV2Repo())

	input := RegisterInput{FirstName: "A", LastName: "B", Email: "a@x.com", Password: "pw123456"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserServiceRegister_UniqueViolationIsConflict(t *testing.T) {
	repo := newMockUserRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	svc := NewUserService(zap.NewNop(), repo, newMockUserV2Repo())

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@x.com",
		Password:  "pw123456",
	})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists from unique violation, got %v", err)
	}
}

func TestUserServiceCreateV2User_DuplicateByEmailAndSub(t *testing.T) {
	repo := newMockUserV2Repo()
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), repo)

	input := CreateV2UserInput{
		Name:     "A",
		Email:    "a@x.com",
		ImageURL: "http://img",
		Nickname: "a",
		Sub:      "sub-1",
	}
	if _, err := svc.CreateV2User(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateV2User(context.Background(), input)
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// Mismo email con otro sub no es duplicado.
	input.Sub = "sub-2"
	if _, err := svc.CreateV2User(context.Background(), input); err != nil {
		t.Fatalf("create with new sub: %v", err)
	}
}

func TestUserServiceCreateV2User_UniqueViolationIsConflict(t *testing.T) {
	repo := newMockUserV2Repo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_v2_email_sub_key"}
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), repo)

	_, err := svc.CreateV2User(context.Background(), CreateV2UserInput{
		Name:     "A",
		Email:    "a@x.com",
		ImageURL: "http://img",
		Nickname: "a",
		Sub:      "sub-1",
	})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists from unique violation, got %v", err)
	}
}

func TestUserServiceRemoveV2User_NotFound(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), newMockUserV2Repo())

	_, err := svc.RemoveV2User(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceRemoveV2User_ReturnsRemovedRecord(t *testing.T) {
	repo := newMockUserV2Repo()
	repo.usersByID["u1"] = domain.UserV2{ID: "u1", Name: "A", Email: "a@x.com", CreatedAt: time.Now().UTC()}
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), repo)

	removed, err := svc.RemoveV2User(context.Background(), "u1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.ID != "u1" {
		t.Fatalf("unexpected removed record: %+v", removed)
	}
	if _, err := repo.GetByID(context.Background(), "u1"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/dhruvkatara/threadreel-backend/pkg/auth"
	"github.com/dhruvkatara/threadreel-backend/pkg/config"
	"github.com/dhruvkatara/threadreel-backend/pkg/db/models"
	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail    map[string]*models.User
	byID       map[uuid.UUID]*models.User
	createErr  error
	lastLogins map[uuid.UUID]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:    map[string]*models.User{},
		byID:       map[uuid.UUID]*models.User{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.byEmail[dto.Email]; exists {
		return nil, errors.New(`duplicate key value violates unique constraint "idx_users_email"`)
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Role:         dto.Role,
	}
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

func (s *stubUserRepo) UpdateColumns(ctx context.Context, id uuid.UUID, values map[string]any) error {
	user, ok := s.byID[id]
	if !ok {
		return nil
	}
	if name, ok := values["name"].(string); ok {
		user.Name = name
	}
	if hash, ok := values["password_hash"].(string); ok {
		user.PasswordHash = hash
	}
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	user, ok := s.byID[id]
	if !ok {
		return 0, nil
	}
	delete(s.byID, id)
	delete(s.byEmail, user.Email)
	return 1, nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(s.byID))
	for _, user := range s.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (s *stubUserRepo) ListVerified(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for _, user := range s.byID {
		if user.IsVerified {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (s *stubUserRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (int64, error) {
	user, ok := s.byID[id]
	if !ok {
		return 0, nil
	}
	user.IsVerified = verified
	return 1, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "threadreel-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(repo, testJWTConfig(), testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Asha Rao",
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
	}
	repo.add(user)
	return user
}

func assertDomainCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	var domainErr *pkgerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code() != want {
		t.Fatalf("expected code %s, got %v", want, err)
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Asha Rao",
		Email:    "Asha@Example.COM",
		Password: "long-enough-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "asha@example.com" {
		t.Fatalf("email must be lowercased, got %q", dto.Email)
	}
	if dto.Role != enums.UserRoleUser {
		t.Fatalf("expected user role, got %s", dto.Role)
	}

	stored := repo.byEmail["asha@example.com"]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "long-enough-pass" {
		t.Fatal("password must not be stored in the clear")
	}
	ok, err := security.VerifyPassword("long-enough-pass", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash must verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Name: "A", Password: "long-enough-pass"}},
		{"missing name", RegisterRequest{Email: "a@b.com", Password: "long-enough-pass"}},
		{"short password", RegisterRequest{Name: "A B", Email: "a@b.com", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			assertDomainCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	seedUser(t, repo, "taken@example.com", "whatever-pass")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Second User",
		Email:    "taken@example.com",
		Password: "long-enough-pass",
	})
	assertDomainCode(t, err, pkgerrors.CodeConflict)
}

func TestLoginMintsVerifiableToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	user := seedUser(t, repo, "asha@example.com", "long-enough-pass")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Asha@example.com",
		Password: "long-enough-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatal("login must stamp last_login_at")
	}
	if _, ok := repo.lastLogins[user.ID]; !ok {
		t.Fatal("login must persist the last login time")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleUser {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	seedUser(t, repo, "asha@example.com", "long-enough-pass")
	ctx := context.Background()

	cases := []struct {
		name string
		req  LoginRequest
	}{
		{"unknown email", LoginRequest{Email: "nobody@example.com", Password: "long-enough-pass"}},
		{"wrong password", LoginRequest{Email: "asha@example.com", Password: "not-the-password"}},
		{"empty email", LoginRequest{Password: "long-enough-pass"}},
		{"empty password", LoginRequest{Email: "asha@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.req)
			assertDomainCode(t, err, pkgerrors.CodeUnauthorized)
		})
	}
}

func TestProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	user := seedUser(t, repo, "asha@example.com", "long-enough-pass")
	ctx := context.Background()

	dto, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if dto.ID != user.ID || dto.Email != user.Email {
		t.Fatalf("unexpected profile %+v", dto)
	}

	_, err = svc.Profile(ctx, uuid.New())
	assertDomainCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Profile(ctx, uuid.Nil)
	assertDomainCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	user := seedUser(t, repo, "asha@example.com", "long-enough-pass")
	ctx := context.Background()

	newName := "Asha R."
	newPassword := "another-long-pass"
	dto, err := svc.UpdateUser(ctx, user.ID, UpdateUserRequest{
		Name:     &newName,
		Password: &newPassword,
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.Name != "Asha R." {
		t.Fatalf("name not updated, got %q", dto.Name)
	}
	ok, err := security.VerifyPassword("another-long-pass", repo.byID[user.ID].PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password must verify: ok=%v err=%v", ok, err)
	}

	_, err = svc.UpdateUser(ctx, user.ID, UpdateUserRequest{})
	assertDomainCode(t, err, pkgerrors.CodeValidation)

	short := "short"
	_, err = svc.UpdateUser(ctx, user.ID, UpdateUserRequest{Password: &short})
	assertDomainCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	user := seedUser(t, repo, "asha@example.com", "long-enough-pass")
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, ok := repo.byID[user.ID]; ok {
		t.Fatal("user must be removed")
	}

	assertDomainCode(t, svc.DeleteUser(ctx, user.ID), pkgerrors.CodeNotFound)
}

func TestVerifiedUsers(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)
	verified := seedUser(t, repo, "one@example.com", "long-enough-pass")
	seedUser(t, repo, "two@example.com", "long-enough-pass")
	ctx := context.Background()

	dto, err := svc.SetVerified(ctx, verified.ID, true)
	if err != nil {
		t.Fatalf("set verified: %v", err)
	}
	if !dto.IsVerified {
		t.Fatal("dto must reflect the flag")
	}

	all, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}

	onlyVerified, err := svc.ListVerifiedUsers(ctx)
	if err != nil {
		t.Fatalf("list verified: %v", err)
	}
	if len(onlyVerified) != 1 || onlyVerified[0].ID != verified.ID {
		t.Fatalf("unexpected verified list %+v", onlyVerified)
	}

	_, err = svc.SetVerified(ctx, uuid.New(), true)
	assertDomainCode(t, err, pkgerrors.CodeNotFound)
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matchkit/tourney/api/internal/model"
	"github.com/matchkit/tourney/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Mock implementations

type mockUserRepo struct {
	users       map[string]*model.User
	emailIndex  map[string]*model.User
	createErr   error
	getErr      error
	passwordErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.User),
		emailIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user:" + user.Email
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	if m.passwordErr != nil {
		return m.passwordErr
	}
	if user, ok := m.users[userID]; ok {
		user.Hash = &hash
	}
	return nil
}

func (m *mockUserRepo) addUser(email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	h := string(hash)
	user := &model.User{
		ID:    "user:" + email,
		Email: email,
		Hash:  &h,
	}
	m.users[user.ID] = user
	m.emailIndex[email] = user
	return user
}

func newTestAuthService(userRepo *mockUserRepo) *AuthService {
	return NewAuthService(AuthServiceConfig{
		UserRepo:   userRepo,
		Codec:      jwt.NewCodec([]byte("test-secret")),
		SessionTTL: time.Hour,
	})
}

// Tests

func TestLoginSuccess(t *testing.T) {
	repo := newMockUserRepo()
	user := repo.addUser("alice@example.com", "correct horse")
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.User.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, result.User.ID)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}

	codec := jwt.NewCodec([]byte("test-secret"))
	email, err := codec.VerifySession(result.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if email != "alice@example.com" {
		t.Errorf("expected token subject alice@example.com, got %s", email)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("alice@example.com", "correct horse")
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "  Alice@Example.COM ", "correct horse")
	if err != nil {
		t.Fatalf("Login with unnormalized email failed: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("alice@example.com", "correct horse")
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUserWithoutPassword(t *testing.T) {
	repo := newMockUserRepo()
	user := &model.User{ID: "user:x", Email: "x@example.com"}
	repo.users[user.ID] = user
	repo.emailIndex[user.Email] = user
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "x@example.com", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRepoError(t *testing.T) {
	repo := newMockUserRepo()
	repo.getErr = errors.New("db down")
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "alice@example.com", "pw")
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("storage errors must not be reported as bad credentials")
	}
	if err == nil {
		t.Error("expected an error")
	}
}

func TestGetUserByID(t *testing.T) {
	repo := newMockUserRepo()
	user := repo.addUser("alice@example.com", "pw12345678")
	svc := newTestAuthService(repo)

	got, err := svc.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("unexpected email %s", got.Email)
	}

	_, err = svc.GetUserByID(context.Background(), "user:missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     error
	}{
		{"empty", "", ErrPasswordRequired},
		{"too short", "seven77", ErrPasswordTooShort},
		{"minimum", "eight888", nil},
		{"maximum", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", nil},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ErrPasswordTooLong},
		{"multibyte counted in characters not bytes", "ññññ", ErrPasswordTooShort},
		{"multibyte minimum", "ññññññññ", nil},
		{"multibyte within maximum", strings.Repeat("🔑", 25), nil},
		{"multibyte too long", strings.Repeat("🔑", 49), ErrPasswordTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validatePassword(tc.password); !errors.Is(got, tc.want) {
				t.Errorf("validatePassword(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := hashPassword("same password")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	h2, err := hashPassword("same password")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
	if !checkPassword("same password", h1) || !checkPassword("same password", h2) {
		t.Error("both hashes must verify the original password")
	}
	if checkPassword("other password", h1) {
		t.Error("wrong password must not verify")
	}
}

package authsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/corray333/bookstore/internal/auth/service/models/user"
)

type fakeUserRepo struct {
	users  map[int64]user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]user.User{}, nextID: 1}
}

func (r *fakeUserRepo) Insert(_ context.Context, u user.User) (user.User, error) {
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u

	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}

	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	return &u, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		out = append(out, u)
	}

	return out, nil
}

func newTestService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	repo := newFakeUserRepo()

	return MustNewAuthService(WithUserRepository(repo)), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(context.Background(), "Reader", "reader@example.com", "s3cret", false)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == 0 {
		t.Error("registered user has no id")
	}
	if u.Password == "s3cret" {
		t.Error("password stored in plain text")
	}

	if _, err := svc.Register(context.Background(), "Other", "reader@example.com", "other", false); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email: err = %v, want ErrUserExists", err)
	}
}

func TestLoginAndValidate(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register(context.Background(), "Reader", "reader@example.com", "s3cret", true)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, u, err := svc.Login(context.Background(), "reader@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if u.ID != registered.ID {
		t.Errorf("user id = %d, want %d", u.ID, registered.ID)
	}

	validated, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if validated.ID != registered.ID || !validated.IsAdmin {
		t.Errorf("unexpected validated user: %+v", validated)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "Reader", "reader@example.com", "s3cret", false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "reader@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Validate(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "Reader", "reader@example.com", "s3cret", false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, _, err := svc.Login(context.Background(), "reader@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	t.Setenv("JWT_SECRET_KEY", "rotated-secret")
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("rotated secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)

	admin, err := svc.Register(context.Background(), "Admin", "admin@example.com", "s3cret", true)
	if err != nil {
		t.Fatalf("Register admin: %v", err)
	}
	regular, err := svc.Register(context.Background(), "Reader", "reader@example.com", "s3cret", false)
	if err != nil {
		t.Fatalf("Register reader: %v", err)
	}

	users, err := svc.ListUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("ListUsers as admin: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}

	if _, err := svc.ListUsers(context.Background(), regular); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListUsers as regular: err = %v, want ErrForbidden", err)
	}
}

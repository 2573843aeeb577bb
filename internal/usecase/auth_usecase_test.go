package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
	ucauth "job-tracker/internal/usecase/auth"
	ucuser "job-tracker/internal/usecase/user"
)

type fakeUsers struct {
	byID   map[int64]user.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]user.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u user.User) (user.User, error) {
	if exists, _ := f.ExistsByLogin(context.Background(), u.Username, u.Email, u.Phone); exists {
		return user.User{}, user.ErrDuplicateLogin
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, identifier string) (user.User, error) {
	for _, u := range f.byID {
		if u.Username == identifier || (u.Email != nil && *u.Email == identifier) || (u.Phone != nil && *u.Phone == identifier) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByLogin(_ context.Context, username string, email, phone *string) (bool, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return true, nil
		}
		if email != nil && u.Email != nil && *u.Email == *email {
			return true, nil
		}
		if phone != nil && u.Phone != nil && *u.Phone == *phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdateUser(_ context.Context, u user.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return user.ErrNotFound
	}
	u.Profile = f.byID[u.ID].Profile
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpsertProfile(_ context.Context, userID int64, p user.Profile) error {
	u, ok := f.byID[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.Profile = &p
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, userID int64, at time.Time) error {
	u := f.byID[userID]
	u.LastLoginAt = &at
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return user.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeTokens struct {
	m map[string]user.RefreshToken
}

func (f *fakeTokens) Create(_ context.Context, t user.RefreshToken) error {
	f.m[t.Token] = t
	return nil
}

func (f *fakeTokens) FindByToken(_ context.Context, token string) (user.RefreshToken, error) {
	t, ok := f.m[token]
	if !ok {
		return user.RefreshToken{}, user.ErrRefreshTokenNotFound
	}
	return t, nil
}

func (f *fakeTokens) Rotate(_ context.Context, oldToken string, next user.RefreshToken) error {
	if _, ok := f.m[oldToken]; !ok {
		return user.ErrRefreshTokenNotFound
	}
	delete(f.m, oldToken)
	f.m[next.Token] = next
	return nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	delete(f.m, token)
	return nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range f.m {
		if !now.Before(t.ExpiresAt) {
			delete(f.m, k)
			n++
		}
	}
	return n, nil
}

func newAuth() (*Auth, *fakeUsers, *fakeTokens) {
	users := newFakeUsers()
	tokens := &fakeTokens{m: map[string]user.RefreshToken{}}
	jwtSvc := jwt.NewHMACService("0123456789abcdef0123456789abcdef", "job-tracker", time.Minute)
	return NewAuthUsecase(users, tokens, jwtSvc, time.Hour, nil), users, tokens
}

func TestAuth_RegisterLoginAuthenticate(t *testing.T) {
	uc, _, tokens := newAuth()
	ctx := context.Background()

	usr, pair, err := uc.Register(ctx, ucauth.RegisterInput{Username: "ada", Email: "Ada@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.PasswordHash != nil {
		t.Fatalf("password hash leaked")
	}
	if usr.Email == nil || *usr.Email != "ada@example.com" {
		t.Fatalf("email not normalised: %v", usr.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || len(tokens.m) != 1 {
		t.Fatalf("unexpected pair %+v", pair)
	}

	_, pair, err = uc.Login(ctx, ucauth.LoginInput{Identifier: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id, err := uc.Authenticate(pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id.UserID != usr.ID || id.Username != "ada" || id.Role != user.RoleUser {
		t.Fatalf("unexpected identity %+v", id)
	}

	if _, _, err := uc.Login(ctx, ucauth.LoginInput{Identifier: "ada", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := uc.Authenticate("garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuth_RegisterValidationAndDuplicates(t *testing.T) {
	uc, _, _ := newAuth()
	ctx := context.Background()

	cases := []ucauth.RegisterInput{
		{Username: "ab", Password: "long-enough"},
		{Username: "ada", Email: "not-an-email", Password: "long-enough"},
		{Username: "ada", Phone: "0123", Password: "long-enough"},
		{Username: "ada", Password: "short"},
	}
	for _, in := range cases {
		if _, _, err := uc.Register(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}

	if _, _, err := uc.Register(ctx, ucauth.RegisterInput{Username: "ada", Phone: "+6281234567", Password: "long-enough"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, _, err := uc.Register(ctx, ucauth.RegisterInput{Username: "grace", Phone: "+6281234567", Password: "long-enough"})
	if !errors.Is(err, ErrAccountExists) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on duplicate phone, got %v", err)
	}
}

func TestAuth_RefreshRotatesOnce(t *testing.T) {
	uc, _, _ := newAuth()
	ctx := context.Background()

	_, pair, err := uc.Register(ctx, ucauth.RegisterInput{Username: "ada", Password: "long-enough"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	next, err := uc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}
	if _, err := uc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected replay to fail, got %v", err)
	}

	if err := uc.Logout(ctx, next.RefreshToken); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Refresh(ctx, next.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
}

func TestAuth_RefreshExpired(t *testing.T) {
	uc, _, tokens := newAuth()
	ctx := context.Background()

	_, pair, err := uc.Register(ctx, ucauth.RegisterInput{Username: "ada", Password: "long-enough"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	uc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := uc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrRefreshTokenExpired) {
		t.Fatalf("expected ErrRefreshTokenExpired, got %v", err)
	}
	if len(tokens.m) != 0 {
		t.Fatalf("expired token should be removed")
	}
}

func TestUser_UpdateMeAndDelete(t *testing.T) {
	users := newFakeUsers()
	auth := NewAuthUsecase(users, &fakeTokens{m: map[string]user.RefreshToken{}},
		jwt.NewHMACService("0123456789abcdef0123456789abcdef", "job-tracker", time.Minute), time.Hour, nil)
	uc := NewUserUsecase(users, nil)
	ctx := context.Background()

	usr, _, err := auth.Register(ctx, ucauth.RegisterInput{Username: "ada", Password: "long-enough"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	me := &user.Identity{UserID: usr.ID, Username: usr.Username, Role: usr.Role}

	name := "Ada Lovelace"
	email := "ada@example.com"
	updated, err := uc.UpdateMe(ctx, me, ucuser.UpdateMeInput{
		Email:   &email,
		Profile: &ucuser.ProfileInput{Name: &name, Skills: []string{"Go"}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Email == nil || *updated.Email != email || updated.Profile == nil || *updated.Profile.Name != name {
		t.Fatalf("unexpected user %+v", updated)
	}

	bad := "x"
	if _, err := uc.UpdateMe(ctx, me, ucuser.UpdateMeInput{Username: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := uc.DeleteMe(ctx, me); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.GetMe(ctx, me); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

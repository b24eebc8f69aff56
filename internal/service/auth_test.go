package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"rolloutlog.com/internal/domain"
	"rolloutlog.com/internal/model"
)

func newAuthService(t *testing.T) *AuthServiceImpl {
	t.Helper()
	return NewAuthService(newTestDB(t), testConfig(), newMemDenylist())
}

func registration() domain.Registration {
	return domain.Registration{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "Valid1Pass",
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	return appErr.Code
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Email != "Ada@Example.com" {
		t.Errorf("Email = %q, original casing should be preserved", user.Email)
	}
	if user.EmailNormalized != "ada@example.com" {
		t.Errorf("EmailNormalized = %q", user.EmailNormalized)
	}
	if user.FirstNameNormalized != "ada" || user.LastNameNormalized != "lovelace" {
		t.Errorf("name normalization: %q %q", user.FirstNameNormalized, user.LastNameNormalized)
	}
	if user.CreateName != model.SystemActor {
		t.Errorf("CreateName = %q, want SYSTEM", user.CreateName)
	}
	if user.FormID == "" {
		t.Error("FormID not set")
	}
	if user.Password == "Valid1Pass" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Valid1Pass")); err != nil {
		t.Errorf("stored password is not a matching bcrypt hash: %v", err)
	}
}

func TestRegisterTrimsInput(t *testing.T) {
	svc := newAuthService(t)

	in := registration()
	in.FirstName = "  Ada  "
	in.Email = " ada@example.com "

	user, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.FirstName != "Ada" {
		t.Errorf("FirstName = %q, want trimmed", user.FirstName)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email = %q, want trimmed", user.Email)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Registration)
	}{
		{"missing first name", func(r *domain.Registration) { r.FirstName = "  " }},
		{"missing last name", func(r *domain.Registration) { r.LastName = "" }},
		{"missing email", func(r *domain.Registration) { r.Email = "" }},
		{"missing password", func(r *domain.Registration) { r.Password = "" }},
		{"bad email", func(r *domain.Registration) { r.Email = "not-an-email" }},
		{"short password", func(r *domain.Registration) { r.Password = "short1" }},
		{"no uppercase", func(r *domain.Registration) { r.Password = "alllowercase1" }},
		{"no lowercase", func(r *domain.Registration) { r.Password = "ALLUPPER1" }},
		{"no digit", func(r *domain.Registration) { r.Password = "NoDigitsHere" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(t)
			in := registration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			if err == nil {
				t.Fatal("Register accepted invalid input")
			}
			if code := appErrCode(t, err); code != 400 {
				t.Errorf("code = %d, want 400", code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Different casing must still collide.
	in := registration()
	in.Email = "ADA@EXAMPLE.COM"

	_, err := svc.Register(ctx, in)
	if err == nil {
		t.Fatal("duplicate registration accepted")
	}
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != 400 || appErr.Message != "Email already in use." {
		t.Fatalf("got %v, want 400 conflict", err)
	}

	var count int64
	svc.db.Model(&model.User{}).Count(&count)
	if count != 1 {
		t.Errorf("stored users = %d, want exactly 1", count)
	}
}

func TestRegisterAgainstSoftDeletedEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	svc.db.Model(user).Update("is_delete", true)

	// The pre-check ignores soft-deleted rows, but the unique index does
	// not, so the insert itself fails. Carried over from the original
	// schema; the row stays unique either way.
	_, err = svc.Register(ctx, registration())
	if err == nil {
		t.Fatal("expected the unique index to reject the re-used email")
	}
	if code := appErrCode(t, err); code != 400 && code != 500 {
		t.Errorf("unexpected code %d", code)
	}

	var count int64
	svc.db.Model(&model.User{}).Count(&count)
	if count != 1 {
		t.Errorf("stored users = %d, want exactly 1", count)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Email lookup is case-insensitive.
	token, user, err := svc.Login(ctx, "ADA@example.COM", "Valid1Pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("no token issued")
	}
	if user.Email != "Ada@Example.com" {
		t.Errorf("user email = %q", user.Email)
	}
}

func TestLoginGenericFailure(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, "ada@example.com", "WrongPass1")
	_, _, noUser := svc.Login(ctx, "nobody@example.com", "Valid1Pass")

	for _, err := range []error{wrongPass, noUser} {
		if err == nil {
			t.Fatal("login succeeded with bad credentials")
		}
	}

	// The two failures must be indistinguishable.
	var a, b *domain.AppError
	errors.As(wrongPass, &a)
	errors.As(noUser, &b)
	if a == nil || b == nil || a.Code != 401 || a.Code != b.Code || a.Message != b.Message {
		t.Errorf("wrong-password (%v) and no-such-user (%v) must return the identical error", wrongPass, noUser)
	}
	if a.Message != "Invalid email or password." {
		t.Errorf("message = %q", a.Message)
	}
}

func TestLoginMissingFields(t *testing.T) {
	svc := newAuthService(t)

	if _, _, err := svc.Login(context.Background(), "", "Valid1Pass"); appErrCode(t, err) != 400 {
		t.Error("missing email should be a 400")
	}
	if _, _, err := svc.Login(context.Background(), "ada@example.com", ""); appErrCode(t, err) != 400 {
		t.Error("missing password should be a 400")
	}
}

func TestLoginUnsetSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Secret = ""
	svc := NewAuthService(newTestDB(t), cfg, newMemDenylist())
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := svc.Login(ctx, "ada@example.com", "Valid1Pass")
	if code := appErrCode(t, err); code != 500 {
		t.Errorf("code = %d, want 500 config error distinct from auth failure", code)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "ada@example.com", "Valid1Pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.EmailNormalized != "ada@example.com" {
		t.Errorf("resolved wrong user %q", user.EmailNormalized)
	}

	if _, err := svc.Authenticate(ctx, ""); appErrCode(t, err) != 401 {
		t.Error("empty token should be a 401")
	}
	if _, err := svc.Authenticate(ctx, "garbage.token.here"); appErrCode(t, err) != 401 {
		t.Error("malformed token should be a 401")
	}
}

func TestAuthenticateSoftDeletedUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "ada@example.com", "Valid1Pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Soft-delete takes effect on the next authenticated call even though
	// the token itself is still within its lifetime.
	svc.db.Model(user).Update("is_delete", true)

	if _, err := svc.Authenticate(ctx, token); appErrCode(t, err) != 401 {
		t.Error("token for a soft-deleted user must be rejected")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registration()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := svc.Login(ctx, "ada@example.com", "Valid1Pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.Authenticate(ctx, token); err != nil {
		t.Fatalf("Authenticate before logout: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); appErrCode(t, err) != 401 {
		t.Error("revoked token must be rejected")
	}

	// A second login issues a distinct token unaffected by the revocation.
	token2, _, err := svc.Login(ctx, "ada@example.com", "Valid1Pass")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token2); err != nil {
		t.Errorf("fresh token rejected after earlier logout: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "Augusta@Example.com",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if updated.FirstName != "Augusta" || updated.Email != "Augusta@Example.com" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.EmailNormalized != "augusta@example.com" {
		t.Errorf("EmailNormalized = %q", updated.EmailNormalized)
	}
	if updated.UpdateDate == nil || updated.UpdateName == nil {
		t.Fatal("UpdateDate/UpdateName not set")
	}
	// UpdateName records the actor as they were when acting.
	if *updated.UpdateName != "Ada@Example.com" {
		t.Errorf("UpdateName = %q, want the pre-update email", *updated.UpdateName)
	}
}

func TestUpdateProfileKeepingOwnEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Re-submitting your own email is not a conflict.
	if _, err := svc.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}); err != nil {
		t.Fatalf("UpdateProfile with own email: %v", err)
	}
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	other := registration()
	other.Email = "other@example.com"
	if _, err := svc.Register(ctx, other); err != nil {
		t.Fatalf("Register other: %v", err)
	}

	_, err = svc.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "OTHER@example.com",
	})
	if err == nil {
		t.Fatal("update accepted a taken email")
	}
	if code := appErrCode(t, err); code != 400 {
		t.Errorf("code = %d, want 400", code)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	oldHash := user.Password

	// Wrong current password: rejected, hash untouched.
	err = svc.ChangePassword(ctx, user.ID, "WrongPass1", "Another1Pass")
	if appErrCode(t, err) != 401 {
		t.Errorf("wrong current password: got %v, want 401", err)
	}
	var check model.User
	svc.db.First(&check, user.ID)
	if check.Password != oldHash {
		t.Fatal("hash changed despite rejected request")
	}

	// Weak new password: rejected.
	if err := svc.ChangePassword(ctx, user.ID, "Valid1Pass", "weak"); appErrCode(t, err) != 400 {
		t.Errorf("weak new password: got %v, want 400", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "Valid1Pass", "Another1Pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ada@example.com", "Another1Pass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ada@example.com", "Valid1Pass"); err == nil {
		t.Error("old password still accepted")
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.GetProfile(context.Background(), 999)
	if code := appErrCode(t, err); code != 404 {
		t.Errorf("code = %d, want 404", code)
	}
}

package services

import (
	"context"
	"errors"
	"restoran_server/lib"
	"restoran_server/structs"
	"strings"
	"testing"
)

func newAuthEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	// Cheap hashing keeps the suite fast
	env.services.AuthService.params = &structs.ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}
	return env
}

func register(t *testing.T, env *testEnv, email, password string) *AuthResult {
	t.Helper()
	res, err := env.services.AuthService.Register(context.Background(), &structs.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Ann Example",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	env := newAuthEnv(t)
	auth := env.services.AuthService
	ctx := context.Background()

	reg := register(t, env, "  Ann@X.com ", "secret1")
	if reg.User.Email != "ann@x.com" {
		t.Fatalf("email not normalized: %q", reg.User.Email)
	}
	if reg.Profile == nil || reg.Profile.FullName != "Ann Example" {
		t.Fatalf("profile not created: %+v", reg.Profile)
	}
	if reg.AccessToken == "" || reg.RefreshToken == "" || reg.TokenType != "Bearer" {
		t.Fatalf("incomplete session: %+v", reg.Session)
	}

	if _, err := auth.Register(ctx, &structs.RegisterRequest{Email: "ann@x.com", Password: "other12", FullName: "Ann"}); !errors.Is(err, lib.ErrConflict) {
		t.Fatalf("duplicate register: err = %v, want ErrConflict", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "ann@x.com", "secret1", nil},
		{"case insensitive email", "ANN@x.com", "secret1", nil},
		{"wrong password", "ann@x.com", "secret2", lib.ErrInvalidCredentials},
		{"unknown email", "bob@x.com", "secret1", lib.ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := auth.Login(ctx, &structs.AuthRequest{Email: tc.email, Password: tc.password})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && res.User.Id != reg.User.Id {
				t.Fatalf("logged in as %s, want %s", res.User.Id, reg.User.Id)
			}
		})
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	env := newAuthEnv(t)
	auth := env.services.AuthService
	ctx := context.Background()

	reg := register(t, env, "ann@x.com", "secret1")

	claims, err := auth.Authenticate(ctx, reg.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Sub != reg.User.Id || claims.Role != "customer" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if err := auth.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.Authenticate(ctx, reg.AccessToken); !errors.Is(err, lib.ErrInvalidToken) {
		t.Fatalf("revoked token: err = %v, want ErrInvalidToken", err)
	}

	// A refresh token is not an access token
	if _, err := auth.Authenticate(ctx, reg.RefreshToken); !errors.Is(err, lib.ErrInvalidToken) {
		t.Fatalf("refresh token as access token: err = %v", err)
	}
}

func TestRefreshIsSingleUse(t *testing.T) {
	env := newAuthEnv(t)
	auth := env.services.AuthService
	ctx := context.Background()

	reg := register(t, env, "ann@x.com", "secret1")

	next, err := auth.Refresh(ctx, reg.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == reg.RefreshToken {
		t.Fatal("refresh returned the same token")
	}
	if _, err := auth.Refresh(ctx, reg.RefreshToken); !errors.Is(err, lib.ErrInvalidToken) {
		t.Fatalf("reused refresh token: err = %v, want ErrInvalidToken", err)
	}
	if _, err := auth.Refresh(ctx, next.RefreshToken); err != nil {
		t.Fatalf("fresh refresh token rejected: %v", err)
	}
}

func TestProfileUpdate(t *testing.T) {
	env := newAuthEnv(t)
	auth := env.services.AuthService
	ctx := context.Background()

	reg := register(t, env, "ann@x.com", "secret1")
	phone := " 555-0100 "

	updated, err := auth.UpdateProfile(ctx, reg.User.Id, &structs.ProfileRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Phone != "555-0100" || updated.FullName != "Ann Example" {
		t.Fatalf("unexpected profile %+v", updated)
	}

	got, err := auth.GetProfile(ctx, reg.User.Id)
	if err != nil || got.Phone != "555-0100" {
		t.Fatalf("GetProfile = %+v, %v", got, err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := newAuthEnv(t)
	auth := env.services.AuthService
	ctx := context.Background()

	register(t, env, "ann@x.com", "secret1")

	if err := auth.RequestPasswordReset(ctx, "nobody@x.com"); err != nil {
		t.Fatalf("unknown email must not be reported: %v", err)
	}
	if err := auth.RequestPasswordReset(ctx, "ann@x.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	env.drain(t)

	sent := env.mailer.Sent()
	if len(sent) != 1 || sent[0].To[0] != "ann@x.com" {
		t.Fatalf("expected one reset email to ann@x.com, got %d", len(sent))
	}
	_, rest, ok := strings.Cut(sent[0].Text, "reset-password?token=")
	if !ok {
		t.Fatalf("reset link missing from email:\n%s", sent[0].Text)
	}
	token := strings.Fields(rest)[0]

	confirm := &structs.ResetPasswordConfirmRequest{Token: token, Password: "newsecret"}
	if err := auth.ConfirmPasswordReset(ctx, confirm); err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}
	if err := auth.ConfirmPasswordReset(ctx, confirm); !errors.Is(err, lib.ErrInvalidToken) {
		t.Fatalf("reused reset token: err = %v, want ErrInvalidToken", err)
	}

	if _, err := auth.Login(ctx, &structs.AuthRequest{Email: "ann@x.com", Password: "secret1"}); !errors.Is(err, lib.ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, err := auth.Login(ctx, &structs.AuthRequest{Email: "ann@x.com", Password: "newsecret"}); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

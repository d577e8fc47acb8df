package lib

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"restoran_server/structs"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signTestToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.NewString(),
		"email": "ann@x.com",
		"role":  "customer",
		"iat":   time.Now().Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.NewString(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	valid := signTestToken(t, "s3cret", time.Now().Add(time.Hour))

	claims, err := ParseToken(valid, "s3cret")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Email != "ann@x.com" || claims.Role != "customer" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken(valid, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v, want ErrInvalidToken", err)
	}
	expired := signTestToken(t, "s3cret", time.Now().Add(-time.Minute))
	if _, err := ParseToken(expired, "s3cret"); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expired: err = %v, want ErrExpiredToken", err)
	}
	if _, err := ParseToken("not.a.token", "s3cret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: err = %v, want ErrInvalidToken", err)
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(r *http.Request)
		want    string
		wantErr bool
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc", false},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc", false},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "", true},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "xyz"}) }, "xyz", false},
		{"nothing", func(r *http.Request) {}, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			tc.setup(r)
			got, err := ExtractToken(r)
			if (err != nil) != tc.wantErr || got != tc.want {
				t.Fatalf("ExtractToken = %q, %v", got, err)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	params := &structs.ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}
	hash, err := HashPassword("secret1", params)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if ok, err := VerifyPassword("secret1", hash); err != nil || !ok {
		t.Fatalf("correct password rejected: %v", err)
	}
	if ok, _ := VerifyPassword("secret2", hash); ok {
		t.Fatal("wrong password accepted")
	}
	if _, err := VerifyPassword("secret1", "plain"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("malformed hash: err = %v, want ErrInvalidHash", err)
	}
	if HashToken("abc") == HashToken("abd") || len(HashToken("abc")) != 64 {
		t.Fatal("HashToken is not a hex sha256 digest")
	}
}

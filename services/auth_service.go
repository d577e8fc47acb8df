package services

import (
	"context"
	"errors"
	"restoran_server/lib"
	"restoran_server/repository"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthResult is returned by registration, login and refresh.
type AuthResult struct {
	User    *tables.AuthUser `json:"user"`
	Profile *tables.Profile  `json:"profile,omitempty"`
	*structs.Session
}

type AuthService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	users    repository.UserRepository
	cache    *CacheService
	notifier *NotificationService
	params   *structs.ArgonParams
	now      func() time.Time
}

func NewAuthService(logger *gecho.Logger, cfg *structs.Config, users repository.UserRepository, cache *CacheService, notifier *NotificationService) *AuthService {
	return &AuthService{
		logger:   logger,
		cfg:      cfg,
		users:    users,
		cache:    cache,
		notifier: notifier,
		params:   lib.DefaultArgonParams,
		now:      time.Now,
	}
}

func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*AuthResult, error) {
	startTime := as.now()
	email := normalizeEmail(req.Email)

	user, err := as.users.GetUserByEmail(ctx, email)
	if err != nil {
		if lib.IsNotFound(err) {
			// Same answer for unknown users and wrong passwords
			as.logger.Debug("Login for unknown email", gecho.Field("email", email))
			return nil, lib.ErrInvalidCredentials
		}
		as.logger.Error("Unexpected store error during login", gecho.Field("error", err), gecho.Field("email", email))
		return nil, err
	}

	ok, err := lib.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Stored password hash is unreadable", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}
	if !ok {
		as.logger.Debug("Login with wrong password", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	if err := as.users.TouchLastLogin(ctx, user.Id, startTime); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	session, err := as.issueSession(user)
	if err != nil {
		return nil, err
	}

	profile, err := as.users.GetProfile(ctx, user.Id)
	if err != nil && !lib.IsNotFound(err) {
		as.logger.Warn("Failed to load profile on login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	as.logger.Debug("User logged in",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)
	return &AuthResult{User: user, Profile: profile, Session: session}, nil
}

// Register creates the account and its profile, then signs the user in.
func (as *AuthService) Register(ctx context.Context, req *structs.RegisterRequest) (*AuthResult, error) {
	startTime := as.now()

	hash, err := lib.HashPassword(req.Password, as.params)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	user, err := as.users.CreateUser(ctx, &tables.AuthUser{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         "customer",
	})
	if err != nil {
		if lib.IsUniqueViolation(err) {
			as.logger.Warn("Registration failed - duplicate user", gecho.Field("email", req.Email))
		} else {
			as.logger.Error("Store error during registration", gecho.Field("error", err), gecho.Field("email", req.Email))
		}
		return nil, err
	}

	profile, err := as.users.UpsertProfile(ctx, &tables.Profile{
		Id:       user.Id,
		Email:    user.Email,
		FullName: strings.TrimSpace(req.FullName),
	})
	if err != nil {
		as.logger.Error("Failed to create profile", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}

	session, err := as.issueSession(user)
	if err != nil {
		return nil, err
	}

	as.logger.Debug("User registered successfully",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)
	return &AuthResult{User: user, Profile: profile, Session: session}, nil
}

// Logout revokes the access token until it would have expired anyway.
func (as *AuthService) Logout(ctx context.Context, claims *structs.AuthClaims) error {
	if err := as.cache.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Error("Failed to blacklist token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return err
	}
	as.logger.Debug("User logged out", gecho.Field("user_id", claims.Sub))
	return nil
}

// Authenticate parses an access token and rejects revoked ones.
func (as *AuthService) Authenticate(ctx context.Context, token string) (*structs.AuthClaims, error) {
	claims, err := lib.ParseToken(token, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := as.cache.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Warn("Blacklist lookup failed", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if revoked {
		return nil, lib.ErrInvalidToken
	}
	return claims, nil
}

func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := lib.ParseToken(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Debug("Failed to parse refresh token", gecho.Field("error", err))
		return nil, err
	}

	revoked, err := as.cache.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if revoked {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	user, err := as.users.GetUserById(ctx, claims.Sub)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, lib.ErrInvalidToken
		}
		return nil, err
	}

	// Refresh tokens are single use
	if err := as.cache.BlacklistToken(ctx, claims.Jti, claims.Exp); err != nil {
		as.logger.Warn("Failed to revoke used refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}

	session, err := as.issueSession(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Session: session}, nil
}

// GetProfile returns the stored profile, or a bare one built from the account.
func (as *AuthService) GetProfile(ctx context.Context, userId uuid.UUID) (*tables.Profile, error) {
	profile, err := as.users.GetProfile(ctx, userId)
	if err == nil {
		return profile, nil
	}
	if !lib.IsNotFound(err) {
		return nil, err
	}

	user, err := as.users.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &tables.Profile{Id: user.Id, Email: user.Email}, nil
}

// UpdateProfile upserts the profile keyed by the user id.
func (as *AuthService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *structs.ProfileRequest) (*tables.Profile, error) {
	current, err := as.GetProfile(ctx, userId)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.FullName != nil {
		next.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		next.Phone = strings.TrimSpace(*req.Phone)
	}
	next.UpdatedAt = as.now()

	profile, err := as.users.UpsertProfile(ctx, &next)
	if err != nil {
		as.logger.Error("Failed to update profile", gecho.Field("error", err), gecho.Field("user_id", userId))
		return nil, err
	}
	return profile, nil
}

// RequestPasswordReset queues a reset link when the account exists.
// It never reports whether the email is registered.
func (as *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := as.users.GetUserByEmail(ctx, email)
	if err != nil {
		if lib.IsNotFound(err) {
			as.logger.Debug("Password reset for unknown email", gecho.Field("email", email))
			return nil
		}
		return err
	}

	token, err := lib.GenerateRandomToken()
	if err != nil {
		return err
	}

	expiry := as.cfg.Auth.ResetTokenExpiry
	if err := as.users.CreatePasswordReset(ctx, &tables.PasswordReset{
		TokenHash: lib.HashToken(token),
		UserId:    user.Id,
		ExpiresAt: as.now().Add(expiry),
	}); err != nil {
		as.logger.Error("Failed to store password reset", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return err
	}

	link := strings.TrimRight(as.cfg.Server.FrontendURL, "/") + "/reset-password?token=" + token
	message, err := RenderPasswordReset(as.cfg.Email, user.Email, link, expiry)
	if err != nil {
		as.logger.Error("Failed to render password reset email", gecho.Field("error", err))
		return nil
	}

	as.notifier.Submit(Notification{Kind: "password_reset", Emails: []*Email{message}})
	return nil
}

// ConfirmPasswordReset consumes the token and stores the new password.
func (as *AuthService) ConfirmPasswordReset(ctx context.Context, req *structs.ResetPasswordConfirmRequest) error {
	reset, err := as.users.ConsumePasswordReset(ctx, lib.HashToken(req.Token), as.now())
	if err != nil {
		if errors.Is(err, lib.ErrInvalidToken) || lib.IsNotFound(err) {
			return lib.ErrInvalidToken
		}
		return err
	}

	hash, err := lib.HashPassword(req.Password, as.params)
	if err != nil {
		return err
	}

	if err := as.users.UpdatePassword(ctx, reset.UserId, hash); err != nil {
		as.logger.Error("Failed to update password", gecho.Field("error", err), gecho.Field("user_id", reset.UserId))
		return err
	}

	as.logger.Info("Password reset completed", gecho.Field("user_id", reset.UserId))
	return nil
}

func (as *AuthService) issueSession(user *tables.AuthUser) (*structs.Session, error) {
	accessExp := as.now().Add(as.cfg.Auth.AccessTokenExpiry)
	accessToken, err := as.signToken(user, accessExp, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		as.logger.Error("Failed to generate access token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}

	refreshExp := as.now().Add(as.cfg.Auth.RefreshTokenExpiry)
	refreshToken, err := as.signToken(user, refreshExp, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Error("Failed to generate refresh token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}

	return &structs.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExp,
	}, nil
}

func (as *AuthService) signToken(user *tables.AuthUser, exp time.Time, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.Id.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   as.now().Unix(),
		"exp":   exp.Unix(),
		"jti":   uuid.New().String(),
	})
	return token.SignedString([]byte(secret))
}

// AccessTokenExpiry and RefreshTokenExpiry size the auth cookies.
func (as *AuthService) AccessTokenExpiry() time.Duration {
	return as.cfg.Auth.AccessTokenExpiry
}

func (as *AuthService) RefreshTokenExpiry() time.Duration {
	return as.cfg.Auth.RefreshTokenExpiry
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

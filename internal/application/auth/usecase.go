package auth

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/jwt"
)

// JWTConfig configuration for token generation.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Account is the single API account allowed to use the archive.
type Account struct {
	User         string
	PasswordHash string // bcrypt
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// AuthUseCase exchanges credentials for a bearer token.
type AuthUseCase struct {
	account Account
	jwtCfg  JWTConfig
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(account Account, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{account: account, jwtCfg: jwtCfg}
}

// Enabled reports whether an account is configured at all.
func (uc *AuthUseCase) Enabled() bool {
	return uc.account.User != "" && uc.account.PasswordHash != ""
}

// Token verifies user/password and signs an access token.
// Returns domain.ErrUnauthorized for wrong credentials and domain.ErrForbidden
// when no account is configured.
func (uc *AuthUseCase) Token(ctx context.Context, user, password string) (*TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !uc.Enabled() {
		return nil, domain.ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(uc.account.User)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.account.User, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		Token:     token,
		UserID:    uc.account.User,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}

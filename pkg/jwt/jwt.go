package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token is only accepted for the purpose it was issued for.
const (
	PurposeAccess   = "access"
	PurposeUpload   = "upload"
	PurposeDownload = "download"
)

// ErrWrongPurpose is returned when, for example, an upload token is presented as bearer token.
var ErrWrongPurpose = errors.New("jwt: token issued for a different purpose")

// Claims carries the registered claims plus the application fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
}

// UploadClaims describe one pre-authorised upload.
type UploadClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Purpose  string `json:"purpose"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Key      string `json:"key"`
}

// DownloadClaims grant read access to one archived invoice in one format.
type DownloadClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Purpose   string `json:"purpose"`
	InvoiceID string `json:"invoice_id"`
	Format    string `json:"format"`
}

// Generate signs an access token for userID.
func Generate(secret, userID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: empty secret")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:  userID,
		Purpose: PurposeAccess,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse validates an access token and returns its user ID.
// It fails for invalid, expired or foreign-signed tokens.
func Parse(secret, tokenString string) (userID string, err error) {
	claims := &Claims{}
	if err := parseInto(secret, tokenString, claims); err != nil {
		return "", err
	}
	if claims.Purpose != PurposeAccess {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

// GenerateUpload signs an upload token valid until expiresAt.
func GenerateUpload(secret, issuer string, c UploadClaims, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: empty secret")
	}
	c.Purpose = PurposeUpload
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   c.UserID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseUpload validates an upload token.
func ParseUpload(secret, tokenString string) (*UploadClaims, error) {
	claims := &UploadClaims{}
	if err := parseInto(secret, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeUpload {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// GenerateDownload signs a download token valid until expiresAt.
func GenerateDownload(secret, issuer string, c DownloadClaims, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: empty secret")
	}
	c.Purpose = PurposeDownload
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   c.UserID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseDownload validates a download token.
func ParseDownload(secret, tokenString string) (*DownloadClaims, error) {
	claims := &DownloadClaims{}
	if err := parseInto(secret, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeDownload {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func parseInto(secret, tokenString string, claims jwt.Claims) error {
	if secret == "" {
		return fmt.Errorf("jwt: empty secret")
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("jwt: invalid claims")
	}
	return nil
}

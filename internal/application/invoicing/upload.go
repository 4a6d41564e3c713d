package invoicing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/jwt"
)

var (
	// ErrTooLarge is returned by a FileStore when the body exceeds the limit.
	ErrTooLarge = errors.New("invoicing: upload exceeds size limit")
	// ErrAlreadyUploaded is returned by a FileStore when the key already holds a file.
	ErrAlreadyUploaded = errors.New("invoicing: key already uploaded")
)

// uploadTypes maps the accepted MIME types to the stored file extension.
var uploadTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/xml": ".xml",
	"text/xml":        ".xml",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

// UploadConfig controls upload URL issuance.
type UploadConfig struct {
	Secret   string
	Issuer   string
	BaseURL  string
	TTL      time.Duration
	MaxBytes int64
}

// UploadURL is a pre-authorised, expiring upload target.
type UploadURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StoredFile describes a completed upload.
type StoredFile struct {
	Key      string `json:"key"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// UploadUseCase hands out signed upload URLs and accepts the uploads.
type UploadUseCase struct {
	cfg   UploadConfig
	store FileStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewUploadUseCase builds the use case.
func NewUploadUseCase(cfg UploadConfig, store FileStore, log zerolog.Logger) *UploadUseCase {
	return &UploadUseCase{cfg: cfg, store: store, log: log, now: time.Now}
}

// IssueURL signs an upload token for one file of the given type.
func (uc *UploadUseCase) IssueURL(ctx context.Context, userID, fileName, mimeType string) (*UploadURL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	mimeType = normalizeMime(mimeType)
	ext, ok := uploadTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: file type %q not allowed", domain.ErrInvalidInput, mimeType)
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("%w: file name required", domain.ErrInvalidInput)
	}

	key := uuid.New().String() + ext
	expiresAt := uc.now().Add(uc.cfg.TTL).UTC().Truncate(time.Second)
	token, err := jwt.GenerateUpload(uc.cfg.Secret, uc.cfg.Issuer, jwt.UploadClaims{
		UserID:   userID,
		FileName: fileName,
		MimeType: mimeType,
		Key:      key,
	}, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("invoicing: sign upload token: %w", err)
	}

	return &UploadURL{
		URL:       strings.TrimRight(uc.cfg.BaseURL, "/") + "/api/uploads/" + token,
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

// Store verifies the token and writes body under the key it names.
// The declared content type must match the one the URL was issued for.
// A token is consumed by its first successful upload; replays are rejected
// as unauthorized. Failed or oversized uploads leave it usable.
func (uc *UploadUseCase) Store(ctx context.Context, token, contentType string, body io.Reader) (*StoredFile, error) {
	claims, err := jwt.ParseUpload(uc.cfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if ct := normalizeMime(contentType); ct != "" && ct != claims.MimeType {
		return nil, fmt.Errorf("%w: content type %q does not match %q", domain.ErrInvalidInput, ct, claims.MimeType)
	}

	n, err := uc.store.Save(ctx, claims.Key, body, uc.cfg.MaxBytes)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		if errors.Is(err, ErrAlreadyUploaded) {
			uc.log.Warn().Str("key", claims.Key).Str("user_id", claims.UserID).Msg("upload token replayed")
			return nil, fmt.Errorf("%w: upload token already used", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("invoicing: store upload: %w", err)
	}

	uc.log.Info().Str("key", claims.Key).Str("user_id", claims.UserID).Int64("bytes", n).Msg("upload stored")
	return &StoredFile{Key: claims.Key, FileName: claims.FileName, MimeType: claims.MimeType, Size: n}, nil
}

func normalizeMime(s string) string {
	s, _, _ = strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(s))
}

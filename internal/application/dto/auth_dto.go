package dto

// TokenRequest body of POST /api/auth/token.
type TokenRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

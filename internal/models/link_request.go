package models

// CreateLinkRequest represents the request body for shortening a URL
type CreateLinkRequest struct {
	OriginalURL string  `json:"originalUrl"`
	ExpiresAt   *string `json:"expiresAt,omitempty"` // RFC 3339 or datetime-local, null for no expiry
	User        *string `json:"user,omitempty"`
}

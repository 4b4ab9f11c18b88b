package models

import "time"

// CreateLinkResponse represents the response after shortening a URL
type CreateLinkResponse struct {
	ShortURL    string     `json:"shortUrl"`
	ShortID     string     `json:"shortId"`
	OriginalURL string     `json:"originalUrl"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LinkResponse is a single entry of the link listing
type LinkResponse struct {
	ShortID     string     `json:"shortId"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"originalUrl"`
	ClickCount  int64      `json:"clickCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	User        *string    `json:"user,omitempty"`
}

// AnalyticsResponse reports the raw click counter of a link
type AnalyticsResponse struct {
	OriginalURL string     `json:"originalUrl"`
	ClickCount  int64      `json:"clickCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

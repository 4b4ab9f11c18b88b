package entities

import "time"

// Link represents a shortened link stored in the database
type Link struct {
	ID          int64      `json:"-"` // storage key, never exposed
	ShortID     string     `json:"shortId"`
	OriginalURL string     `json:"originalUrl"`
	User        *string    `json:"user,omitempty"` // opaque owner tag
	ClickCount  int64      `json:"clickCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt"` // nil means the link never expires
}

// IsExpired reports whether the link is past its expiry at now.
// A link is still live at the exact instant of its expiry.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (l *Link) Clone() *Link {
	if l == nil {
		return nil
	}
	c := *l
	if l.User != nil {
		u := *l.User
		c.User = &u
	}
	if l.ExpiresAt != nil {
		e := *l.ExpiresAt
		c.ExpiresAt = &e
	}
	return &c
}

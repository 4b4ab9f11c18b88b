package service

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxURLLength is the longest original URL accepted.
const MaxURLLength = 2048

var (
	validate    = validator.New()
	httpPattern = regexp.MustCompile(`^https?://\S+$`)
)

// Layouts accepted for expiresAt. Values without a zone are read as UTC.
var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func validateOriginalURL(raw string) error {
	invalid := &ValidationError{Code: CodeInvalidURL, Message: "Invalid or missing original URL."}

	if err := validate.Var(raw, "required,max=2048,url"); err != nil {
		return invalid
	}
	if !httpPattern.MatchString(raw) {
		return invalid
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return invalid
	}
	return nil
}

// parseExpiry returns nil when no expiry was supplied.
func parseExpiry(raw *string, now time.Time) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	value := strings.TrimSpace(*raw)
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		t = t.UTC()
		if !t.After(now) {
			return nil, &ValidationError{Code: CodeInvalidExpiry, Message: "Expiration date must be in the future."}
		}
		return &t, nil
	}

	return nil, &ValidationError{Code: CodeInvalidExpiry, Message: "Invalid expiration date."}
}

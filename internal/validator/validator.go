// Package validator holds the precondition checks shared by every
// component that accepts caller-supplied input before it ever touches
// the database or the network: identity and stream-id sanitization,
// credential-triple validation, and LIKE-pattern escaping. Every
// rejection here is a store.ValidationError, never retried by any
// caller (spec §7).
package validator

import (
	"net/url"
	"strings"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// Identity rejects an empty identity string. Identity is otherwise
// opaque to the core — any non-empty value is a valid namespace.
func Identity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return store.NewValidationError("identity", "must not be empty")
	}
	return nil
}

// StreamID rejects a non-positive stream or series id.
func StreamID(id int) error {
	if id <= 0 {
		return store.NewValidationError("stream_id", "must be positive")
	}
	return nil
}

// CategoryID rejects an empty category id.
func CategoryID(id string) error {
	if strings.TrimSpace(id) == "" {
		return store.NewValidationError("category_id", "must not be empty")
	}
	return nil
}

// SyncIntervalHours enforces the minimum polling interval from §4.7:
// anything more frequent than every 6 hours is rejected outright so a
// misconfigured caller can't hammer the remote panel.
func SyncIntervalHours(hours int) error {
	if hours < 6 {
		return store.NewValidationError("sync_interval_hours", "must be at least 6")
	}
	return nil
}

// Credentials validates the (base_url, username, password) triple a
// caller supplies for a sync run. base_url must parse as an absolute
// http or https URL with a non-empty host; username and password must
// be non-empty, since an xtream-codes panel rejects empty credentials
// anyway and there is no point paying for a round trip to learn that.
func Credentials(baseURL, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return store.NewValidationError("username", "must not be empty")
	}
	if strings.TrimSpace(password) == "" {
		return store.NewValidationError("password", "must not be empty")
	}
	return BaseURL(baseURL)
}

// BaseURL validates that raw is an absolute http(s) URL with a host.
func BaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return store.NewValidationError("base_url", "must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return store.NewValidationError("base_url", "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return store.NewValidationError("base_url", "scheme must be http or https")
	}
	if u.Host == "" {
		return store.NewValidationError("base_url", "must include a host")
	}
	return nil
}

// EscapeLikePattern delegates to store.SanitizeLikePattern so every
// package that builds a LIKE fragment from caller input shares one
// escaping rule for '%' and '_'.
func EscapeLikePattern(pattern string) string {
	return store.SanitizeLikePattern(pattern)
}

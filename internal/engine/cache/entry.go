package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached value with its expiry.
type Entry struct {
	// Key is the SHA256 digest the entry is stored under.
	Key string `json:"key"`

	// Data is the cached payload.
	Data json.RawMessage `json:"data"`

	// Source is the file the result was computed from, kept for inspection.
	Source string `json:"source,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

// NewEntry stamps data with the current time and a TTL.
func NewEntry(key, source string, data json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Key:        key,
		Data:       data,
		Source:     source,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the entry is past its expiry.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the time since the entry was written.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// TimeUntilExpiration returns the remaining lifetime, or 0 once expired.
func (e *Entry) TimeUntilExpiration() time.Duration {
	if remaining := time.Until(e.ExpiresAt); remaining > 0 {
		return remaining
	}
	return 0
}

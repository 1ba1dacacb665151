// Package analysis caches the AI analysis per user and drives the
// analysis view: show the cached copy first, fetch only when asked.
package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/duskwallet/duskwallet/internal/logging"
	"github.com/duskwallet/duskwallet/internal/store"
)

const (
	payloadPrefix   = "analysis_"
	timestampPrefix = "analysis_timestamp_"
)

// PayloadKey is the storage key holding userKey's cached payload.
func PayloadKey(userKey string) string { return payloadPrefix + userKey }

// TimestampKey is the storage key holding when the payload was cached.
func TimestampKey(userKey string) string { return timestampPrefix + userKey }

// Entry is a cached analysis payload and the time it was stored.
type Entry struct {
	Payload   json.RawMessage
	Timestamp time.Time
}

// Cache stores one analysis per user in durable storage.
type Cache struct {
	store store.Storage
	now   func() time.Time
	log   *logrus.Entry
}

// NewCache returns a cache over s.
func NewCache(s store.Storage, logger *logrus.Logger) *Cache {
	return &Cache{
		store: s,
		now:   time.Now,
		log:   logging.Component(logger, "analysis-cache"),
	}
}

// Read returns the cached entry for userKey. Storage failures and
// unreadable entries are logged and reported as a miss.
func (c *Cache) Read(userKey string) (Entry, bool) {
	if userKey == "" {
		return Entry{}, false
	}
	raw, ok, err := c.store.Get(PayloadKey(userKey))
	if err != nil {
		c.log.WithError(err).Warn("reading cached analysis")
		return Entry{}, false
	}
	if !ok || !json.Valid([]byte(raw)) {
		return Entry{}, false
	}

	e := Entry{Payload: json.RawMessage(raw)}
	if ts, ok, err := c.store.Get(TimestampKey(userKey)); err == nil && ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = t
		}
	}
	return e, true
}

// Write stores payload for userKey stamped with the current time.
func (c *Cache) Write(userKey string, payload json.RawMessage) (Entry, error) {
	return c.WriteAt(userKey, payload, c.now())
}

// WriteAt stores payload for userKey stamped with at. A zero at means now.
func (c *Cache) WriteAt(userKey string, payload json.RawMessage, at time.Time) (Entry, error) {
	if userKey == "" {
		return Entry{}, fmt.Errorf("analysis cache: empty user key")
	}
	if at.IsZero() {
		at = c.now()
	}
	e := Entry{Payload: payload, Timestamp: at}
	if err := c.store.Set(PayloadKey(userKey), string(payload)); err != nil {
		return Entry{}, fmt.Errorf("analysis cache: writing payload: %w", err)
	}
	if err := c.store.Set(TimestampKey(userKey), e.Timestamp.Format(time.RFC3339Nano)); err != nil {
		return Entry{}, fmt.Errorf("analysis cache: writing timestamp: %w", err)
	}
	return e, nil
}

// Invalidate removes both keys for userKey.
func (c *Cache) Invalidate(userKey string) error {
	if userKey == "" {
		return nil
	}
	if err := c.store.Delete(PayloadKey(userKey), TimestampKey(userKey)); err != nil {
		return fmt.Errorf("analysis cache: invalidating: %w", err)
	}
	return nil
}
